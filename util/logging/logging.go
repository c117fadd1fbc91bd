package logging

import (
	"sync"

	"github.com/rs/zerolog"
)

// Logging is embedded into components; it starts with a nop logger and logs
// nothing until a configured logger is injected with SetLogger or SetLogging.
type Logging struct {
	l           zerolog.Logger
	orig        zerolog.Logger
	contextFunc func(zerolog.Context) zerolog.Context
	sync.RWMutex
}

func NewLogging(f func(zerolog.Context) zerolog.Context) *Logging {
	nop := zerolog.Nop()

	return &Logging{
		l:           nop,
		orig:        nop,
		contextFunc: f,
	}
}

func (lg *Logging) Log() *zerolog.Logger {
	lg.RLock()
	defer lg.RUnlock()

	return &lg.l
}

func (lg *Logging) SetLogger(l zerolog.Logger) *Logging {
	lg.Lock()
	defer lg.Unlock()

	lg.orig = l
	lg.l = l

	if lg.contextFunc != nil {
		lg.l = lg.contextFunc(lg.orig.With()).Logger()
	}

	return lg
}

// SetLogging inherits the other's logger, applying the receiver's own
// context.
func (lg *Logging) SetLogging(l *Logging) *Logging {
	return lg.SetLogger(*l.Log())
}
