package session

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/folio-works/portfolio/internal/modules/model"
)

const (
	userKey    = "user"
	expiresKey = "_expires"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Store is a gorilla sessions.Store that keeps session data server side. The cookie carries
// only the signed session id. Lifetime is fixed at issuance and never extended.
type Store struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	backend Backend
	ser     securecookie.GobEncoder
	now     func() time.Time
}

// NewStore builds a store that signs ids with keyPairs (hash key, optional block key, ...).
func NewStore(backend Backend, opts sessions.Options, keyPairs ...[]byte) *Store {
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(opts.MaxAge)
		}
	}
	o := opts
	return &Store{
		Codecs:  codecs,
		Options: &o,
		backend: backend,
		now:     time.Now,
	}
}

func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the session referenced by the request cookie, or a fresh one when the cookie
// is missing, forged, or points at an expired record.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := *s.Options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.Codecs...); err != nil {
		// tampered or stale cookie: treat as anonymous
		return sess, nil
	}
	if err := s.load(r.Context(), id, sess); err != nil {
		if errors.Is(err, ErrNotFound) {
			return sess, nil
		}
		return sess, err
	}
	sess.ID = id
	sess.IsNew = false
	return sess, nil
}

// Save writes the session record and its cookie. A negative MaxAge destroys both.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	ctx := r.Context()
	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.backend.Delete(ctx, sess.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		sess.ID = ""
		return nil
	}

	now := s.now()
	expires, ok := sess.Values[expiresKey].(int64)
	if !ok || sess.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		sess.ID = id
		expires = now.Add(time.Duration(s.Options.MaxAge) * time.Second).UnixNano()
		sess.Values[expiresKey] = expires
	}
	ttl := time.Unix(0, expires).Sub(now)
	if ttl <= 0 {
		return s.backend.Delete(ctx, sess.ID)
	}

	data, err := s.ser.Serialize(sess.Values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Save(ctx, sess.ID, data, ttl); err != nil {
		return err
	}

	signed, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("sign session id: %w", err)
	}
	opts := *sess.Options
	opts.MaxAge = int(ttl.Round(time.Second) / time.Second)
	http.SetCookie(w, sessions.NewCookie(sess.Name(), signed, &opts))
	return nil
}

// Renew drops the current record and detaches the session from its id, so the next Save
// issues a new id with a full lifetime.
func (s *Store) Renew(ctx context.Context, sess *sessions.Session) error {
	if sess.ID != "" {
		if err := s.backend.Delete(ctx, sess.ID); err != nil {
			return err
		}
	}
	sess.ID = ""
	sess.IsNew = true
	sess.Values = map[interface{}]interface{}{}
	return nil
}

func (s *Store) load(ctx context.Context, id string, sess *sessions.Session) error {
	data, err := s.backend.Load(ctx, id)
	if err != nil {
		return err
	}
	values := map[interface{}]interface{}{}
	if err := s.ser.Deserialize(data, &values); err != nil {
		return ErrNotFound
	}
	if exp, ok := values[expiresKey].(int64); !ok || !s.now().Before(time.Unix(0, exp)) {
		return ErrNotFound
	}
	sess.Values = values
	return nil
}

func newID() (string, error) {
	b := securecookie.GenerateRandomKey(32)
	if b == nil {
		return "", errors.New("session: random source unavailable")
	}
	return idEncoding.EncodeToString(b), nil
}

// SetUser stores the authenticated user on the session.
func SetUser(sess *sessions.Session, u model.User) {
	sess.Values[userKey] = u
}

// UserFrom returns the user stored on the session, if any.
func UserFrom(sess *sessions.Session) (*model.User, bool) {
	if sess == nil {
		return nil, false
	}
	u, ok := sess.Values[userKey].(model.User)
	if !ok {
		return nil, false
	}
	return &u, true
}

// Expire marks the session for destruction on the next Save.
func Expire(sess *sessions.Session) {
	sess.Options.MaxAge = -1
	delete(sess.Values, userKey)
}
