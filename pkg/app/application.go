package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtbook/pkg/config"
)

// Runner is the foreground work of a process, such as the menu loop. It
// returns when the work is done or ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

type closer struct {
	name string
	fn   func() error
}

type Application struct {
	cfg     *config.Config
	runner  Runner
	closers []closer
	signals chan os.Signal
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

func (a *Application) SetRunner(r Runner) {
	a.runner = r
}

// OnShutdown registers fn to run during graceful shutdown. Closers run in
// reverse registration order.
func (a *Application) OnShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Run blocks until the runner finishes or SIGINT/SIGTERM arrives, then
// shuts down. It returns the runner's error, if any.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErrors := make(chan error, 1)
	go func() {
		a.cfg.Log.Debug("Starting runner")
		runErrors <- a.runner.Run(ctx)
	}()

	shutdown := a.signals
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)
	}

	var err error
	select {
	case err = <-runErrors:
		if err != nil {
			a.cfg.Log.Error("Runner failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}

	a.gracefulShutdown()
	return err
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := len(a.closers) - 1; i >= 0; i-- {
			c := a.closers[i]
			if err := c.fn(); err != nil {
				a.cfg.Log.Error("Shutdown step failed", "step", c.name, "error", err)
				continue
			}
			a.cfg.Log.Debug("Shutdown step completed", "step", c.name)
		}
	}()

	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}

	select {
	case <-done:
		a.cfg.Log.Info("Stopped gracefully")
	case <-time.After(timeout):
		a.cfg.Log.Error("Graceful shutdown timed out", "timeout", timeout)
	}
}
