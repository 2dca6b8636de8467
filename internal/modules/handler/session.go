package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/folio-works/portfolio/internal/middleware"
	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/session"
)

// StartSession binds u to a brand new session id, discarding whatever session the
// request arrived with.
func StartSession(c *gin.Context, store *session.Store, name string, u model.User) error {
	sess, err := requestSession(c, store, name)
	if err != nil {
		return err
	}
	if err := store.Renew(c.Request.Context(), sess); err != nil {
		return err
	}
	session.SetUser(sess, u)
	return sess.Save(c.Request, c.Writer)
}

// EndSession destroys the server-side record and expires the cookie.
func EndSession(c *gin.Context, store *session.Store, name string) error {
	sess, err := requestSession(c, store, name)
	if err != nil {
		return err
	}
	session.Expire(sess)
	return sess.Save(c.Request, c.Writer)
}

func requestSession(c *gin.Context, store *session.Store, name string) (*sessions.Session, error) {
	if sess := middleware.SessionFrom(c); sess != nil {
		return sess, nil
	}
	return store.Get(c.Request, name)
}
