package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/folio-works/portfolio/docs"
	"github.com/folio-works/portfolio/internal/config"
	"github.com/folio-works/portfolio/internal/middleware"
	"github.com/folio-works/portfolio/internal/modules/handler"
	"github.com/folio-works/portfolio/internal/modules/serializer"
	"github.com/folio-works/portfolio/internal/web"
)

type RouterDeps struct {
	Config         *config.Config
	Log            *zap.Logger
	Sessions       sessions.Store
	LoginLimiter   *middleware.IPRateLimiter
	ProjectHandler *handler.ProjectHandler
	AuthHandler    *handler.AuthHandler
	// Web is optional; without it only the JSON API is served.
	Web *web.Handler
}

func NewRouter(d RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.Config.App.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))
	r.Use(middleware.Metrics())

	if len(d.Config.Cors.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.Config.Cors.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.Session(d.Sessions, d.Config.Session.CookieName))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := d.LoginLimiter
	if limiter == nil {
		limiter = middleware.NewIPRateLimiter(d.Config.LoginLimit.PerMinute, d.Config.LoginLimit.Burst)
	}

	api := r.Group("/api")
	{
		api.GET("/projects", d.ProjectHandler.ListProjects)
		api.GET("/projects/:id", d.ProjectHandler.GetProject)
		api.POST("/projects/:id/views", d.ProjectHandler.RecordView)
		api.GET("/categories", d.ProjectHandler.ListCategories)

		admin := api.Group("", middleware.RequireAdmin())
		{
			admin.POST("/projects", d.ProjectHandler.CreateProject)
			admin.PATCH("/projects/:id", d.ProjectHandler.UpdateProject)
			admin.DELETE("/projects/:id", d.ProjectHandler.DeleteProject)
		}

		api.POST("/login", middleware.RateLimit(limiter), d.AuthHandler.Login)
		api.POST("/logout", d.AuthHandler.Logout)
		api.GET("/user", d.AuthHandler.CurrentUser)
	}

	if d.Web != nil {
		if err := d.Web.Register(r); err != nil {
			return nil, err
		}
	} else {
		r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, serializer.NotFound("")) })
	}
	return r, nil
}
