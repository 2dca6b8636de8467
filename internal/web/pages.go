package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-works/portfolio/internal/modules/handler"
	"github.com/folio-works/portfolio/internal/modules/repo"
	"github.com/folio-works/portfolio/internal/modules/service"
	"github.com/folio-works/portfolio/internal/pkg/validate"
	"github.com/folio-works/portfolio/internal/telemetry"
)

func (h *Handler) Home(c *gin.Context) {
	items, err := h.d.Projects.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "home", gin.H{"Title": "Work", "Projects": items})
}

// ProjectDetail counts a view and shows the project with its updated counter.
func (h *Handler) ProjectDetail(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.d.Projects.RecordView(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.notFound(c)
			return
		}
		// a failed counter must not hide the page
		h.d.Log.Sugar().Warnw("record view failed", "id", id, "err", err)
	}

	p, err := h.d.Projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "project", gin.H{"Title": p.Title, "Project": p})
}

func (h *Handler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about", gin.H{"Title": "About"})
}

func (h *Handler) ContactForm(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", gin.H{
		"Title": "Contact",
		"Sent":  c.Query("sent") == "1",
		"Form":  service.ContactMessage{},
	})
}

func (h *Handler) ContactSubmit(c *gin.Context) {
	var msg service.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		fields, _ := validate.FieldErrors(err)
		h.render(c, http.StatusBadRequest, "contact", gin.H{
			"Title":  "Contact",
			"Form":   msg,
			"Fields": fields,
		})
		return
	}
	if err := h.d.Contact.Submit(c.Request.Context(), msg); err != nil {
		h.render(c, http.StatusBadGateway, "contact", gin.H{
			"Title": "Contact",
			"Form":  msg,
			"Error": "Your message could not be sent. Please try again.",
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/contact?sent=1")
}

func (h *Handler) LoginForm(c *gin.Context) {
	if isAdmin(c) {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	h.render(c, http.StatusOK, "login", gin.H{"Title": "Sign in", "Next": c.Query("next")})
}

func (h *Handler) LoginSubmit(c *gin.Context) {
	var req handler.LoginReq
	next := c.PostForm("next")
	if err := c.ShouldBind(&req); err != nil {
		fields, _ := validate.FieldErrors(err)
		h.render(c, http.StatusBadRequest, "login", gin.H{
			"Title": "Sign in", "Next": next, "Username": req.Username, "Fields": fields,
		})
		return
	}

	u, err := h.d.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Sign in failed. Please try again."
		if errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			msg = "Incorrect username or password."
			telemetry.LoginAttempts.WithLabelValues("rejected").Inc()
		}
		h.render(c, status, "login", gin.H{
			"Title": "Sign in", "Next": next, "Username": req.Username, "Error": msg,
		})
		return
	}

	if err := handler.StartSession(c, h.d.Store, h.d.CookieName, *u); err != nil {
		h.serverError(c, err)
		return
	}
	telemetry.LoginAttempts.WithLabelValues("accepted").Inc()
	c.Redirect(http.StatusSeeOther, safeNext(next))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := handler.EndSession(c, h.d.Store, h.d.CookieName); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
