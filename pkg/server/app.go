package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "TokenRadar/internal/domain/repository"
	"TokenRadar/internal/scheduler"
	"TokenRadar/internal/service/sources"
	"TokenRadar/internal/service/telegram"
	"TokenRadar/pkg/cache"
	"TokenRadar/pkg/config"
	xhttp "TokenRadar/pkg/http"
	applogger "TokenRadar/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	stream     *sources.Stream
	sched      *scheduler.Scheduler
	history    drepo.AlertHistory
	cache      cache.Service
	tg         *telegram.Client
	httpServer *xhttp.Server
}

// NewApp creates the application. stream and sched may be nil when the
// corresponding features are disabled.
func NewApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	stream *sources.Stream,
	sched *scheduler.Scheduler,
	history drepo.AlertHistory,
	c cache.Service,
	tg *telegram.Client,
) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		stream:  stream,
		sched:   sched,
		history: history,
		cache:   c,
		tg:      tg,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.stream != nil {
		if err := a.stream.Start(ctx); err != nil {
			a.log.Warn("stream start error", applogger.Error(err))
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	// Point Telegram at us once the listener is up. Without a public URL the
	// bot still serves the REST API and scheduled pushes.
	if a.cfg.Telegram.WebhookURL != "" {
		whCtx, whCancel := context.WithTimeout(ctx, 15*time.Second)
		if err := a.tg.SetWebhook(whCtx, a.cfg.Telegram.WebhookURL); err != nil {
			a.log.Error("webhook registration failed", applogger.Error(err))
		} else {
			a.log.Info("webhook registered", applogger.String("url", a.cfg.Telegram.WebhookURL))
		}
		whCancel()
	}

	if a.sched != nil {
		if err := a.sched.Start(); err != nil {
			a.log.Error("scheduler start error", applogger.Error(err))
			return err
		}
	}

	a.log.Info("app started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.sched != nil {
		a.sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.stream != nil {
		if err := a.stream.Close(); err != nil {
			a.log.Warn("stream close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn("history close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
