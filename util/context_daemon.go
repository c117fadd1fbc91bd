package util

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ekisu/timerkit/util/logging"
)

// ContextDaemon runs one callback in its own goroutine; Stop cancels the
// callback context and waits until the callback returns. A callback that
// returns on its own leaves the daemon stopped, so Stop after a natural
// finish returns ErrDaemonAlreadyStopped.
type ContextDaemon struct {
	*logging.Logging
	callback   func(context.Context) error
	cancelfunc func()
	donech     chan struct{}
	sync.RWMutex
}

var _ Daemon = (*ContextDaemon)(nil)

func NewContextDaemon(name string, callback func(context.Context) error) *ContextDaemon {
	return &ContextDaemon{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "context-daemon").Str("daemon", name)
		}),
		callback: callback,
	}
}

func (dm *ContextDaemon) IsStarted() bool {
	dm.RLock()
	defer dm.RUnlock()

	return dm.cancelfunc != nil
}

func (dm *ContextDaemon) Start(ctx context.Context) error {
	dm.Lock()
	defer dm.Unlock()

	if dm.cancelfunc != nil {
		return ErrDaemonAlreadyStarted.Call()
	}

	nctx, cancel := context.WithCancel(ctx)
	donech := make(chan struct{})

	dm.cancelfunc = cancel
	dm.donech = donech

	go func() {
		defer close(donech)

		if err := dm.callback(nctx); err != nil {
			dm.Log().Error().Err(err).Msg("daemon callback failed")
		}

		cancel()

		dm.Lock()
		if dm.donech == donech { // not taken by Stop nor by a restart
			dm.cancelfunc = nil
			dm.donech = nil
		}
		dm.Unlock()
	}()

	dm.Log().Debug().Msg("started")

	return nil
}

func (dm *ContextDaemon) Stop() error {
	dm.Lock()

	if dm.cancelfunc == nil {
		dm.Unlock()

		return ErrDaemonAlreadyStopped.Call()
	}

	cancel := dm.cancelfunc
	donech := dm.donech
	dm.cancelfunc = nil
	dm.donech = nil

	dm.Unlock()

	cancel()
	<-donech

	dm.Log().Debug().Msg("stopped")

	return nil
}
