package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio/internal/middleware"
	"github.com/folio-works/portfolio/internal/modules/serializer"
	"github.com/folio-works/portfolio/internal/modules/service"
	"github.com/folio-works/portfolio/internal/modules/session"
	"github.com/folio-works/portfolio/internal/pkg/validate"
	"github.com/folio-works/portfolio/internal/telemetry"
)

type AuthHandler struct {
	svc   service.AuthService
	store *session.Store
	name  string
	log   *zap.Logger
}

func NewAuthHandler(s service.AuthService, store *session.Store, cookieName string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: s, store: store, name: cookieName, log: log}
}

type LoginReq struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Check credentials and start a new session
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		handler.LoginReq	true	"Credentials"
//	@Success		200		{object}	model.User
//	@Failure		400		{object}	serializer.Response
//	@Failure		401		{object}	serializer.Response
//	@Failure		429		{object}	serializer.Response
//	@Router			/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		if fields, ok := validate.FieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, serializer.ValidationErr(fields))
		} else {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		}
		return
	}

	u, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			telemetry.LoginAttempts.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, serializer.AuthErr(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.Err(http.StatusInternalServerError, "login failed", err))
		return
	}

	if err := StartSession(c, h.store, h.name, *u); err != nil {
		h.log.Sugar().Errorw("session save failed", "err", err)
		c.JSON(http.StatusInternalServerError, serializer.Err(http.StatusInternalServerError, "could not start session", err))
		return
	}
	telemetry.LoginAttempts.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, u)
}

// Logout godoc
//
//	@Summary	Logout
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	serializer.Response
//	@Router		/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := EndSession(c, h.store, h.name); err != nil {
		h.log.Sugar().Errorw("session destroy failed", "err", err)
		c.JSON(http.StatusInternalServerError, serializer.Err(http.StatusInternalServerError, "could not end session", err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "logged out"})
}

// CurrentUser godoc
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	model.User
//	@Failure	401	{object}	serializer.Response
//	@Router		/user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}
	c.JSON(http.StatusOK, u)
}
