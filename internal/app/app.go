package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gocovid/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkglog"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkguid"
)

const serviceName = "gocovid"

// App owns the process lifetime: config, the HTTP server and the enabled
// modules with their closers.
type App struct {
	// ctx is cancelled on Stop and bounds module background work.
	ctx    context.Context
	cancel context.CancelFunc

	config pkgconfig.Config
	uuid   pkguid.StringID

	router     *pkgrouter.Router
	httpServer *http.Server

	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging(serviceName)

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:      ctx,
		cancel:   cancel,
		closerFn: map[string]func(context.Context) error{},
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
