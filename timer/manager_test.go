package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type testManager struct {
	suite.Suite
}

func (t *testManager) longRunningTimer() *Timer {
	tr := NewTimer()

	t.NoError(tr.StartRecurring(time.Hour, CallbackFunc(func(context.Context) error {
		return nil
	}), 0))

	return tr
}

func (t *testManager) TestNew() {
	m := NewManager()

	t.Empty(m.ActiveTimers())

	_, found := m.Timer(0)
	t.False(found)
}

func (t *testManager) TestAddTimer() {
	m := NewManager()

	// identifiers increase from 0 and are never reused
	for i := uint64(0); i < 3; i++ {
		id := m.AddTimer(NewTimer())
		t.Equal(i, id)
	}

	for i := uint64(0); i < 3; i++ {
		tr, found := m.Timer(i)
		t.True(found)
		t.NotNil(tr)
	}

	_, found := m.Timer(3)
	t.False(found)
}

func (t *testManager) TestActiveTimers() {
	m := NewManager()

	running0 := m.AddTimer(t.longRunningTimer())
	stopped := m.AddTimer(NewTimer())
	running1 := m.AddTimer(t.longRunningTimer())

	defer m.StopAll()

	active := m.ActiveTimers()
	t.ElementsMatch([]uint64{running0, running1}, active)

	_, found := m.Timer(stopped)
	t.True(found) // stopped timers stay registered
}

func (t *testManager) TestStopAll() {
	m := NewManager()

	_ = m.AddTimer(t.longRunningTimer())
	_ = m.AddTimer(NewTimer()) // already stopped; its stop error is ignored
	_ = m.AddTimer(t.longRunningTimer())

	m.StopAll()

	t.Empty(m.ActiveTimers())

	// broadcasting again over stopped timers is harmless
	m.StopAll()
	t.Empty(m.ActiveTimers())
}

func (t *testManager) TestStopAllPaused() {
	m := NewManager()

	tr := t.longRunningTimer()
	t.NoError(tr.Pause())

	_ = m.AddTimer(tr)

	m.StopAll()

	t.Equal(StateStopped, tr.State())
	t.Empty(m.ActiveTimers())
}

func (t *testManager) TestTimerOperationsThroughManager() {
	m := NewManager()

	id := m.AddTimer(t.longRunningTimer())

	tr, found := m.Timer(id)
	t.True(found)

	t.NoError(tr.Pause())
	t.NoError(tr.Resume())
	t.NoError(tr.Stop())

	t.Empty(m.ActiveTimers())
}

func TestManager(t *testing.T) {
	defer goleak.VerifyNone(t)

	suite.Run(t, new(testManager))
}
