package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"
	aqmtemplate "github.com/aquamarinepk/aqm/template"

	"github.com/MohammedBoure/restaurant-ops/internal/ops"
)

//go:embed assets
var assetsFS embed.FS

const (
	appNamespace = "RESTOPS"
	appName      = "restaurant-ops"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	tmplMgr := aqmtemplate.NewManager(assetsFS, aqmtemplate.WithLogger(logger))

	backendURL, _ := config.GetString("backend.url")
	if backendURL == "" {
		backendURL = "http://localhost:5000"
	}
	backend := ops.NewBackend(backendURL, 10*time.Second)

	handler := ops.NewHandler(tmplMgr, backend, config, logger)
	handler.SetStaticAssets(assetsFS)

	// Kitchen and waiter watchers poll the backend for newly pending /
	// newly ready orders while the service runs.
	watchers := ops.NewWatchHub(handler, config, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: false,
	})

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(tmplMgr, watchers),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
