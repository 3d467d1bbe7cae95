package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gocovid/internal/covid"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.covid.enabled") {
		slog.Warn("module covid is disabled, only /health is served")
		return
	}

	closer, err := covid.New(covid.Dependency{
		Config:  a.config,
		Router:  a.router,
		Context: a.ctx,
	})
	if err != nil {
		slog.Error("failed to init module covid", "error", err)
		os.Exit(1)
	}
	a.closerFn["Covid"] = closer
}
