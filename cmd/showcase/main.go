package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ekisu/timerkit/timer"
	"github.com/ekisu/timerkit/util/logging"
)

func init() { //nolint:gochecknoinits //.
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

type flags struct {
	LogLevel   string   `name:"log-level" default:"debug" help:"log level: {trace, debug, info, warn, error}"`
	LogFormat  string   `name:"log-format" enum:"json,terminal" default:"terminal" help:"log format: {${enum}}"`
	LogOut     []string `name:"log-out" help:"log output file: {stdout, stderr, <file>}"`
	ForceColor bool     `name:"force-color" negatable:"" help:"log force color"`
}

func main() {
	var fl flags

	kctx := kong.Parse(&fl,
		kong.Name("showcase"),
		kong.Description("walks through the timerkit features: one-time and recurring timers, "+
			"pause/resume, interval adjustment, failing callbacks and stop-all"),
	)

	level, err := zerolog.ParseLevel(fl.LogLevel)
	kctx.FatalIfErrorf(errors.Wrap(err, "invalid log level"))

	out, err := logWriter(fl.LogOut)
	kctx.FatalIfErrorf(err)

	logs := logging.Setup(out, level, fl.LogFormat, fl.ForceColor)

	kctx.FatalIfErrorf(run(logs))
}

func logWriter(outs []string) (io.Writer, error) {
	if len(outs) < 1 {
		return os.Stderr, nil
	}

	ws := make([]io.Writer, len(outs))

	for i := range outs {
		switch outs[i] {
		case "stdout":
			ws[i] = os.Stdout
		case "stderr":
			ws[i] = os.Stderr
		default:
			w, err := logging.Output(outs[i])
			if err != nil {
				return nil, err
			}

			ws[i] = w
		}
	}

	return zerolog.MultiLevelWriter(ws...), nil
}

func run(logs *logging.Logging) error {
	log := logs.Log()

	mgr := timer.NewManager()
	_ = mgr.SetLogging(logs)

	newTimer := func() *timer.Timer {
		t := timer.NewTimer()
		_ = t.SetLogging(logs)

		return t
	}

	// one-time timer
	once := newTimer()
	if err := once.StartOnce(time.Second*2, timer.CallbackFunc(func(context.Context) error {
		log.Info().Msg("one-time timer executed")

		return nil
	})); err != nil {
		return err
	}

	_ = mgr.AddTimer(once)

	// recurring timer, five ticks
	recurring := newTimer()
	if err := recurring.StartRecurring(time.Second, timer.CallbackFunc(func(context.Context) error {
		log.Info().Msg("recurring timer executed")

		return nil
	}), 5); err != nil {
		return err
	}

	recurringID := mgr.AddTimer(recurring)

	// failing callback; counted as ticks, never stops the run
	failing := newTimer()
	if err := failing.StartRecurring(time.Second*3, timer.CallbackFunc(func(context.Context) error {
		return errors.Errorf("simulated error")
	}), 0); err != nil {
		return err
	}

	_ = mgr.AddTimer(failing)

	log.Info().Uints64("active", mgr.ActiveTimers()).Msg("timers started")

	<-time.After(time.Second * 2)

	// pause and resume the recurring timer
	if t, found := mgr.Timer(recurringID); found {
		if err := t.Pause(); err != nil {
			return err
		}

		log.Info().Msg("recurring timer paused")

		<-time.After(time.Second * 2)

		if err := t.Resume(); err != nil {
			return err
		}

		log.Info().Msg("recurring timer resumed")

		// next wait uses the new interval
		if err := t.AdjustInterval(time.Millisecond * 500); err != nil {
			return err
		}
	}

	<-time.After(time.Second * 4)

	stats := recurring.Statistics()
	log.Info().
		Object("statistics", logging.ZerologObjectMarshaler(func(e *zerolog.Event) {
			e.Uint64("execution_count", stats.ExecutionCount).Dur("elapsed", stats.ElapsedTime)
		})).
		Stringer("state", recurring.State()).
		Msg("recurring timer statistics")

	mgr.StopAll()

	log.Info().Uints64("active", mgr.ActiveTimers()).Msg("all timers stopped")

	return nil
}
