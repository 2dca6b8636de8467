package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/serializer"
	"github.com/folio-works/portfolio/internal/modules/session"
)

const (
	sessionCtxKey = "session"
	userCtxKey    = "user"
)

// Session loads the named session for every request and exposes its user, if any.
// A backend failure degrades to an anonymous session.
func Session(store sessions.Store, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, name)
		if err != nil {
			_ = c.Error(err)
		}
		if sess != nil {
			c.Set(sessionCtxKey, sess)
			if u, ok := session.UserFrom(sess); ok {
				c.Set(userCtxKey, u)
				span := trace.SpanFromContext(c.Request.Context())
				if span.SpanContext().IsValid() {
					span.SetAttributes(attribute.String("user", u.Username))
				}
			}
		}
		c.Next()
	}
}

// SessionFrom returns the session loaded by Session.
func SessionFrom(c *gin.Context) *sessions.Session {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*sessions.Session)
	return sess
}

// CurrentUser returns the authenticated user for this request.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok && u != nil
}

// RequireAdmin rejects anonymous callers with 401 and non-admin users with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.CheckLogin())
			return
		}
		if !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, serializer.Forbidden(""))
			return
		}
		c.Next()
	}
}
