package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
)

// Start serves HTTP in the background and returns a channel that is closed
// once a termination signal arrives.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr, "covid", a.config.GetBool("modules.covid.enabled"))

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		<-ctx.Done()
		slog.Info("termination signal received")

		close(terminateChan)
	}()

	return terminateChan
}

// Stop drains the HTTP server first so no request is still using a module,
// then cancels background work and closes the remaining resources in name
// order.
func (a *App) Stop(ctx context.Context) {
	if closer, ok := a.closerFn[httpServerCloser]; ok {
		a.close(ctx, httpServerCloser, closer)
	}

	if a.cancel != nil {
		a.cancel()
	}

	names := make([]string, 0, len(a.closerFn))
	for name := range a.closerFn {
		if name != httpServerCloser {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		a.close(ctx, name, a.closerFn[name])
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}

func (a *App) close(ctx context.Context, name string, closer func(context.Context) error) {
	if err := closer(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		return
	}
	slog.InfoContext(ctx, "resource closed", "name", name)
}
