// Package web serves the server-rendered public site and the admin dashboard.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio/internal/middleware"
	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/serializer"
	"github.com/folio-works/portfolio/internal/modules/service"
	"github.com/folio-works/portfolio/internal/modules/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var notices = map[string]string{
	"created": "Project created.",
	"updated": "Project updated.",
	"deleted": "Project deleted.",
}

type Deps struct {
	Projects   service.ProjectService
	Auth       service.AuthService
	Contact    service.ContactService
	Store      *session.Store
	CookieName string
	// LoginLimit guards the login form; nil disables it.
	LoginLimit gin.HandlerFunc
	Log        *zap.Logger
}

type Handler struct {
	d Deps
}

func NewHandler(d Deps) *Handler {
	if d.LoginLimit == nil {
		d.LoginLimit = func(c *gin.Context) { c.Next() }
	}
	return &Handler{d: d}
}

// Templates parses every embedded page. Each page file defines a template named after itself.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"year":       func() int { return time.Now().Year() },
		"categories": categoryOptions,
		"fieldErr": func(fields map[string]string, key string) string {
			return fields[key]
		},
	}).ParseFS(templateFS, "templates/*.html")
}

// Register installs the templates and every page route on r. The session middleware must
// already be in r's chain.
func (h *Handler) Register(r *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.Home)
	r.GET("/projects/:id", h.ProjectDetail)
	r.GET("/about", h.About)
	r.GET("/contact", h.ContactForm)
	r.POST("/contact", h.ContactSubmit)

	r.GET("/auth", h.LoginForm)
	r.POST("/auth", h.d.LoginLimit, h.LoginSubmit)

	admin := r.Group("/admin", requireAdminPage())
	{
		admin.GET("", h.Dashboard)
		admin.GET("/projects/new", h.NewProjectForm)
		admin.POST("/projects/new", h.CreateProject)
		admin.GET("/projects/:id/edit", h.EditProjectForm)
		admin.POST("/projects/:id/edit", h.UpdateProject)
		admin.GET("/projects/:id/delete", h.DeleteConfirm)
		admin.POST("/projects/:id/delete", h.DeleteProject)
		admin.POST("/logout", h.Logout)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, serializer.NotFound(""))
			return
		}
		h.notFound(c)
	})
	return nil
}

func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if u, ok := middleware.CurrentUser(c); ok {
		data["User"] = u
	}
	if msg, ok := notices[c.Query("notice")]; ok {
		data["Notice"] = msg
	}
	data["Path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found", gin.H{"Title": "Not found"})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.render(c, http.StatusInternalServerError, "error", gin.H{
		"Title":   "Something went wrong",
		"Message": "We could not load this page. Please try again shortly.",
	})
}

func requireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, ok := middleware.CurrentUser(c); ok && u.IsAdmin {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, "/auth?next="+url.QueryEscape(c.Request.URL.Path))
		c.Abort()
	}
}

// safeNext only allows redirects back into the admin area.
func safeNext(next string) string {
	if next == "/admin" || strings.HasPrefix(next, "/admin/") {
		return next
	}
	return "/admin"
}

func isAdmin(c *gin.Context) bool {
	u, ok := middleware.CurrentUser(c)
	return ok && u.IsAdmin
}

func categoryOptions() []string {
	return model.ProjectCategories
}
