package timer

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ekisu/timerkit/util"
	"github.com/ekisu/timerkit/util/logging"
)

// Statistics of the current run; ExecutionCount counts every tick, failed
// callback included. ElapsedTime is measured from the most recent start, not
// from resume.
type Statistics struct {
	ExecutionCount uint64
	ElapsedTime    time.Duration
}

// Timer runs a Callback after a delay, once or repeatedly, with live pause,
// resume, stop and interval adjustment. One background loop at most is alive
// per Timer; Stop joins it before returning.
type Timer struct {
	*logging.Logging
	loop      *util.ContextDaemon
	interval  *util.Locked[time.Duration]
	pausech   chan struct{}
	stats     Statistics
	state     State
	startLock sync.Mutex // serializes teardown and spawn of the loop
	sync.RWMutex
}

func NewTimer() *Timer {
	return &Timer{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "timer")
		}),
		interval: util.NewLocked(time.Duration(0)),
		pausech:  make(chan struct{}, 1),
	}
}

// StartOnce runs callback once after delay; a one-time run is a recurring run
// truncated to one tick.
func (t *Timer) StartOnce(delay time.Duration, callback Callback) error {
	return t.start(delay, callback, false, 0)
}

// StartRecurring runs callback every interval; expire bounds the number of
// ticks, zero means unbounded.
func (t *Timer) StartRecurring(interval time.Duration, callback Callback, expire uint64) error {
	return t.start(interval, callback, true, expire)
}

func (t *Timer) start(interval time.Duration, callback Callback, recurring bool, expire uint64) error {
	if interval <= 0 {
		return ErrInvalidParameter.Errorf("interval must be positive, not %v", interval)
	}

	if callback == nil {
		return ErrInvalidParameter.Errorf("nil callback")
	}

	t.startLock.Lock()
	defer t.startLock.Unlock()

	if err := t.Stop(); err != nil && !errors.Is(err, ErrTimerStopped) {
		return err
	}

	runid := util.ULID().String()

	t.Lock()
	defer t.Unlock()

	t.state = StateRunning
	t.stats = Statistics{}
	t.interval.SetValue(interval)

	// stale wake token from a previous run
	select {
	case <-t.pausech:
	default:
	}

	var loop *util.ContextDaemon
	loop = util.NewContextDaemon("timer-"+runid, func(ctx context.Context) error {
		t.run(ctx, loop, runid, callback, recurring, expire)

		return nil
	})
	_ = loop.SetLogging(t.Logging)

	if err := loop.Start(context.Background()); err != nil {
		t.state = StateStopped
		t.loop = nil

		return errors.Wrap(err, "failed to start timer loop")
	}

	t.loop = loop

	t.Log().Debug().
		Str("run_id", runid).
		Dur("interval", interval).
		Bool("recurring", recurring).
		Uint64("expire", expire).
		Msg("timer started")

	return nil
}

// Pause suspends the loop without busy-waiting. Pausing a paused timer is an
// error, same as pausing a stopped one.
func (t *Timer) Pause() error {
	t.Lock()
	defer t.Unlock()

	if t.state != StateRunning {
		return ErrTimerStopped.Errorf("timer is %v", t.state)
	}

	t.state = StatePaused

	t.Log().Debug().Msg("timer paused")

	return nil
}

// Resume wakes the loop parked by Pause.
func (t *Timer) Resume() error {
	t.Lock()
	defer t.Unlock()

	if t.state != StatePaused {
		return ErrInvalidParameter.Errorf("timer is not paused; %v", t.state)
	}

	t.state = StateRunning

	select {
	case t.pausech <- struct{}{}:
	default:
	}

	t.Log().Debug().Msg("timer resumed")

	return nil
}

// Stop terminates the loop and joins it; once Stop returns the callback will
// not run again. Stopping a stopped timer is an error, not a no-op.
func (t *Timer) Stop() error {
	t.Lock()

	if t.state == StateStopped {
		t.Unlock()

		return ErrTimerStopped.Call()
	}

	t.state = StateStopped
	loop := t.loop
	t.loop = nil

	t.Unlock()

	if loop != nil {
		// AlreadyStopped means the loop finished on its own; the state
		// transition above still counts as this caller's stop.
		if err := loop.Stop(); err != nil && !errors.Is(err, util.ErrDaemonAlreadyStopped) {
			return errors.Wrap(err, "failed to stop timer loop")
		}
	}

	t.Log().Debug().Msg("timer stopped")

	return nil
}

// AdjustInterval replaces the wait used by the next loop iteration; a wait
// already in progress is not affected.
func (t *Timer) AdjustInterval(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidParameter.Errorf("interval must be positive, not %v", d)
	}

	t.interval.SetValue(d)

	t.Log().Debug().Dur("interval", d).Msg("timer interval adjusted")

	return nil
}

func (t *Timer) State() State {
	t.RLock()
	defer t.RUnlock()

	return t.state
}

func (t *Timer) Statistics() Statistics {
	t.RLock()
	defer t.RUnlock()

	return t.stats
}

// IsStarted returns true while a background loop is alive.
func (t *Timer) IsStarted() bool {
	t.RLock()
	defer t.RUnlock()

	return t.loop != nil && t.loop.IsStarted()
}

func (t *Timer) run(
	ctx context.Context,
	loop *util.ContextDaemon,
	runid string,
	callback Callback,
	recurring bool,
	expire uint64,
) {
	l := t.Log().With().Str("run_id", runid).Logger()

	started := time.Now()

	var ticks uint64

end:
	for {
		switch t.State() {
		case StateStopped:
			break end
		case StatePaused:
			select {
			case <-ctx.Done():
				break end
			case <-t.pausech:
			}

			continue
		case StateRunning:
		}

		select {
		case <-ctx.Done():
			break end
		case <-time.After(t.interval.Value()):
		}

		if t.State() != StateRunning { // pause or stop landed during the wait
			continue
		}

		if err := callback.Execute(ctx); err != nil {
			l.Error().Err(ErrCallbackFailed.Wrap(err)).Msg("timer callback failed")
		}

		ticks++
		t.tick(time.Since(started))

		l.Debug().Uint64("ticks", ticks).Msg("timer ticked")

		if expire > 0 && ticks >= expire {
			l.Debug().Uint64("ticks", ticks).Msg("timer expired")

			break end
		}

		if !recurring {
			break end
		}
	}

	t.finishRun(loop)
}

func (t *Timer) tick(elapsed time.Duration) {
	t.Lock()
	defer t.Unlock()

	t.stats.ExecutionCount++
	t.stats.ElapsedTime = elapsed
}

// finishRun marks natural termination; callers polling State observe Stopped
// without having called Stop. A loop whose handle was already taken by Stop
// or by a restart must not touch the state.
func (t *Timer) finishRun(loop *util.ContextDaemon) {
	t.Lock()
	defer t.Unlock()

	if t.loop != loop {
		return
	}

	t.state = StateStopped
	t.loop = nil
}
