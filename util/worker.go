package util

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

type ContextWorkerCallback func(ctx context.Context, jobid uint64) error

var ErrJobWorkerDone = NewError("job worker: no more new job")

// ErrCallbackJobWorker distributes jobs to goroutines bound by a semaphore;
// job errors do not cancel the other jobs, they go to errf.
type ErrCallbackJobWorker struct {
	ctx     context.Context
	cancel  func()
	sem     *semaphore.Weighted
	errf    func(error)
	semsize int64
	jobid   uint64
	done    bool
	sync.Mutex
}

func NewErrCallbackJobWorker(ctx context.Context, semsize int64, errf func(error)) (*ErrCallbackJobWorker, error) {
	if semsize < 1 {
		return nil, errors.Errorf("semsize under 1")
	}

	if errf == nil {
		errf = func(error) {} //revive:disable-line:modifies-parameter
	}

	nctx, cancel := context.WithCancel(ctx)

	return &ErrCallbackJobWorker{
		ctx:     nctx,
		cancel:  cancel,
		sem:     semaphore.NewWeighted(semsize),
		errf:    errf,
		semsize: semsize,
	}, nil
}

func (wk *ErrCallbackJobWorker) NewJob(c ContextWorkerCallback) error {
	wk.Lock()

	if wk.done {
		wk.Unlock()

		return ErrJobWorkerDone.Call()
	}

	jobid := wk.jobid
	wk.jobid++

	wk.Unlock()

	if err := wk.sem.Acquire(wk.ctx, 1); err != nil {
		return errors.WithStack(err)
	}

	go func() {
		defer wk.sem.Release(1)

		if err := c(wk.ctx, jobid); err != nil {
			wk.errf(err)
		}
	}()

	return nil
}

// Done blocks new jobs; Wait waits until the accepted jobs finished.
func (wk *ErrCallbackJobWorker) Done() {
	wk.Lock()
	defer wk.Unlock()

	wk.done = true
}

func (wk *ErrCallbackJobWorker) Wait() error {
	if err := wk.sem.Acquire(wk.ctx, wk.semsize); err != nil {
		return errors.WithStack(err)
	}

	wk.sem.Release(wk.semsize)

	return nil
}

func (wk *ErrCallbackJobWorker) Close() {
	wk.cancel()
}
