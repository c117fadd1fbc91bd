package timer

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ekisu/timerkit/util"
	"github.com/ekisu/timerkit/util/logging"
)

const stopAllWorkerSize int64 = 333

// Manager is a registry of Timers keyed by generated identifiers; it does not
// take part in execution, all timer semantics stay with Timer. Identifiers
// increase from 0 and are never reused.
type Manager struct {
	*logging.Logging
	timers *util.LockedMap[uint64, *Timer]
	nextID uint64
}

func NewManager() *Manager {
	return &Manager{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "timer-manager")
		}),
		timers: util.NewLockedMap[uint64, *Timer](),
	}
}

func (m *Manager) AddTimer(t *Timer) uint64 {
	id := atomic.AddUint64(&m.nextID, 1) - 1

	_ = m.timers.SetValue(id, t)

	m.Log().Debug().Uint64("timer_id", id).Msg("timer added")

	return id
}

func (m *Manager) Timer(id uint64) (*Timer, bool) {
	return m.timers.Value(id)
}

// ActiveTimers returns the identifiers of the timers not stopped, in no
// particular order.
func (m *Manager) ActiveTimers() []uint64 {
	ids := make([]uint64, 0, m.timers.Len())

	m.timers.Traverse(func(id uint64, t *Timer) bool {
		if t.State() != StateStopped {
			ids = append(ids, id)
		}

		return true
	})

	return ids
}

// StopAll stops every stored timer; an already stopped timer does not prevent
// stopping the rest.
func (m *Manager) StopAll() {
	semsize := int64(m.timers.Len())
	if semsize < 1 {
		return
	}

	if semsize > stopAllWorkerSize {
		semsize = stopAllWorkerSize
	}

	wk, err := util.NewErrCallbackJobWorker(context.Background(), semsize, func(err error) {
		m.Log().Debug().Err(err).Msg("failed to stop timer")
	})
	if err != nil {
		return
	}

	defer wk.Close()

	m.timers.Traverse(func(_ uint64, t *Timer) bool {
		_ = wk.NewJob(func(context.Context, uint64) error {
			return t.Stop()
		})

		return true
	})

	wk.Done()
	_ = wk.Wait()

	m.Log().Debug().Msg("all timers stopped")
}
