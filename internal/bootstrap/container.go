package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/folio-works/portfolio/internal/config"
	"github.com/folio-works/portfolio/internal/infra/cache"
	"github.com/folio-works/portfolio/internal/infra/db"
	"github.com/folio-works/portfolio/internal/infra/httpclient"
	"github.com/folio-works/portfolio/internal/infra/logger"
	"github.com/folio-works/portfolio/internal/infra/mq"
	"github.com/folio-works/portfolio/internal/middleware"
	"github.com/folio-works/portfolio/internal/modules/handler"
	"github.com/folio-works/portfolio/internal/modules/repo"
	"github.com/folio-works/portfolio/internal/modules/service"
	"github.com/folio-works/portfolio/internal/modules/session"
	"github.com/folio-works/portfolio/internal/router"
	"github.com/folio-works/portfolio/internal/web"
)

// BuildContainer registers every provider. Nothing is constructed until it is invoked, so
// the postgres, redis and rabbitmq connections are only opened when the config selects them.
func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level, cfg.IsProduction())
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		return db.New(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i))
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		return cache.New(do.MustInvoke[*config.Config](i))
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		return amqp.Dial(do.MustInvoke[*config.Config](i).RabbitMQ.URL)
	})
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn, err := do.Invoke[*amqp.Connection](i)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		return mq.NewPublisher(conn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey, do.MustInvoke[*zap.Logger](i))
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		cfg := do.MustInvoke[*config.Config](i)
		switch cfg.Storage.Backend {
		case config.StoragePostgres:
			d, err := do.Invoke[*gorm.DB](i)
			if err != nil {
				return nil, err
			}
			return repo.NewProjectRepo(d), nil
		case config.StorageSupabase:
			client := httpclient.NewPostgrestClient(cfg, do.MustInvoke[*zap.Logger](i))
			return repo.NewRestProjectRepo(client, cfg.Supabase.Table), nil
		default:
			return repo.NewMemoryProjectRepo(), nil
		}
	})

	// Sessions
	do.Provide(inj, func(i *do.Injector) (session.Backend, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Session.Backend == config.SessionRedis {
			rdb, err := do.Invoke[*redis.Client](i)
			if err != nil {
				return nil, err
			}
			return session.NewRedisBackend(rdb, ""), nil
		}
		return session.NewMemoryBackend(), nil
	})
	do.Provide(inj, func(i *do.Injector) (*session.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return session.NewStore(do.MustInvoke[session.Backend](i), sessions.Options{
			Path:     "/",
			MaxAge:   cfg.Session.MaxAgeSec,
			HttpOnly: true,
			Secure:   cfg.Session.Secure,
			SameSite: http.SameSiteLaxMode,
		}, []byte(cfg.Session.Secret)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(do.MustInvoke[repo.ProjectRepo](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		return service.NewAuthService(do.MustInvoke[*config.Config](i).Admin, do.MustInvoke[*zap.Logger](i))
	})
	do.Provide(inj, func(i *do.Injector) (service.ContactNotifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		if cfg.RabbitMQ.URL == "" {
			return service.NewLogNotifier(log), nil
		}
		p, err := do.Invoke[*mq.Publisher](i)
		if err != nil {
			return nil, err
		}
		return service.NewQueueNotifier(p), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ContactService, error) {
		return service.NewContactService(do.MustInvoke[service.ContactNotifier](i), do.MustInvoke[*zap.Logger](i)), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return handler.NewAuthHandler(
			do.MustInvoke[service.AuthService](i),
			do.MustInvoke[*session.Store](i),
			cfg.Session.CookieName,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*middleware.IPRateLimiter, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return middleware.NewIPRateLimiter(cfg.LoginLimit.PerMinute, cfg.LoginLimit.Burst), nil
	})
	do.Provide(inj, func(i *do.Injector) (*web.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return web.NewHandler(web.Deps{
			Projects:   do.MustInvoke[service.ProjectService](i),
			Auth:       do.MustInvoke[service.AuthService](i),
			Contact:    do.MustInvoke[service.ContactService](i),
			Store:      do.MustInvoke[*session.Store](i),
			CookieName: cfg.Session.CookieName,
			LoginLimit: middleware.RateLimit(do.MustInvoke[*middleware.IPRateLimiter](i)),
			Log:        do.MustInvoke[*zap.Logger](i),
		}), nil
	})

	// Router
	do.Provide(inj, func(i *do.Injector) (*gin.Engine, error) {
		return router.NewRouter(router.RouterDeps{
			Config:         do.MustInvoke[*config.Config](i),
			Log:            do.MustInvoke[*zap.Logger](i),
			Sessions:       do.MustInvoke[*session.Store](i),
			LoginLimiter:   do.MustInvoke[*middleware.IPRateLimiter](i),
			ProjectHandler: do.MustInvoke[*handler.ProjectHandler](i),
			AuthHandler:    do.MustInvoke[*handler.AuthHandler](i),
			Web:            do.MustInvoke[*web.Handler](i),
		})
	})

	return inj
}
