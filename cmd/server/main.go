package main

//	@title			Portfolio API
//	@version		1.0
//	@description	API for the portfolio site and its admin dashboard.
//	@schemes		http https
//	@BasePath		/api

//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						portfolio.sid
//	@description				Session cookie issued by POST /login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio/internal/bootstrap"
	"github.com/folio-works/portfolio/internal/config"
	"github.com/folio-works/portfolio/internal/infra/mq"
	"github.com/folio-works/portfolio/internal/telemetry"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	// Setup OpenTelemetry tracing (using configuration system)
	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Sugar().Warnw("failed to setup tracing, continuing without tracing", "err", err)
	} else if tp != nil {
		log.Sugar().Infow("OpenTelemetry tracing enabled", "endpoint", cfg.Telemetry.OtlpEndpoint)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(ctx); err != nil {
				log.Sugar().Errorw("failed to shutdown tracer", "err", err)
			}
		}()
	}

	// init gin
	gin.SetMode(cfg.App.Env)

	engine, err := do.Invoke[*gin.Engine](inj)
	if err != nil {
		log.Sugar().Fatalw("build router", "err", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Sugar().Infow("starting http server",
			"addr", addr,
			"storage", cfg.Storage.Backend,
			"sessions", cfg.Session.Backend)
		log.Sugar().Infow("swagger url", "url", addr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}
	if cfg.RabbitMQ.URL != "" {
		// closes the channel and the connection it was opened on
		if p, err := do.Invoke[*mq.Publisher](inj); err == nil {
			if err := p.Close(); err != nil {
				log.Sugar().Warnw("close rabbitmq", "err", err)
			}
		}
	}
	log.Sugar().Info("server exited")
}

