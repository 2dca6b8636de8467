package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-works/portfolio/internal/modules/model"
)

const cookieName = "portfolio.sid"

var testOpts = sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode}

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisBackend(rdb, "test:sess:"), mr
}

var backendCases = []struct {
	name string
	new  func(t *testing.T) Backend
}{
	{"memory", func(*testing.T) Backend { return NewMemoryBackend() }},
	{"redis", func(t *testing.T) Backend { b, _ := newRedisBackend(t); return b }},
}

// roundTrip saves sess through the store and returns the cookie that was written.
func roundTrip(t *testing.T, s *Store, sess *sessions.Session) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(req, rec, sess))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestStore_SaveAndLoad(t *testing.T) {
	for _, bc := range backendCases {
		t.Run(bc.name, func(t *testing.T) {
			s := NewStore(bc.new(t), testOpts, []byte("0123456789abcdef0123456789abcdef"))

			sess, err := s.New(requestWith(nil), cookieName)
			require.NoError(t, err)
			assert.True(t, sess.IsNew)
			_, ok := UserFrom(sess)
			assert.False(t, ok)

			SetUser(sess, model.User{ID: model.AdminUserID, Username: "admin", IsAdmin: true})
			c := roundTrip(t, s, sess)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			assert.Equal(t, "/", c.Path)
			assert.NotContains(t, c.Value, "admin", "cookie carries only the signed id")

			loaded, err := s.New(requestWith(c), cookieName)
			require.NoError(t, err)
			assert.False(t, loaded.IsNew)
			assert.Equal(t, sess.ID, loaded.ID)
			u, ok := UserFrom(loaded)
			require.True(t, ok)
			assert.Equal(t, "admin", u.Username)
			assert.True(t, u.IsAdmin)
		})
	}
}

func TestStore_TamperedCookieIsAnonymous(t *testing.T) {
	s := NewStore(NewMemoryBackend(), testOpts, []byte("0123456789abcdef0123456789abcdef"))
	sess, _ := s.New(requestWith(nil), cookieName)
	SetUser(sess, model.User{ID: 1, Username: "admin", IsAdmin: true})
	c := roundTrip(t, s, sess)

	forged := *c
	forged.Value = c.Value[:len(c.Value)-2] + "xx"
	got, err := s.New(requestWith(&forged), cookieName)
	require.NoError(t, err)
	assert.True(t, got.IsNew)

	other := NewStore(NewMemoryBackend(), testOpts, []byte("ffffffffffffffffffffffffffffffff"))
	got, err = other.New(requestWith(c), cookieName)
	require.NoError(t, err)
	assert.True(t, got.IsNew, "cookie signed with another secret is rejected")
}

func TestStore_RenewIssuesFreshID(t *testing.T) {
	for _, bc := range backendCases {
		t.Run(bc.name, func(t *testing.T) {
			b := bc.new(t)
			s := NewStore(b, testOpts, []byte("0123456789abcdef0123456789abcdef"))

			sess, _ := s.New(requestWith(nil), cookieName)
			sess.Values["visited"] = true
			first := roundTrip(t, s, sess)
			oldID := sess.ID

			reloaded, err := s.New(requestWith(first), cookieName)
			require.NoError(t, err)
			require.NoError(t, s.Renew(context.Background(), reloaded))
			SetUser(reloaded, model.User{ID: 1, Username: "admin", IsAdmin: true})
			roundTrip(t, s, reloaded)

			assert.NotEqual(t, oldID, reloaded.ID)
			_, err = b.Load(context.Background(), oldID)
			assert.ErrorIs(t, err, ErrNotFound, "old record is dropped on renewal")

			stale, err := s.New(requestWith(first), cookieName)
			require.NoError(t, err)
			assert.True(t, stale.IsNew)
		})
	}
}

func TestStore_ExpireDestroysRecord(t *testing.T) {
	for _, bc := range backendCases {
		t.Run(bc.name, func(t *testing.T) {
			b := bc.new(t)
			s := NewStore(b, testOpts, []byte("0123456789abcdef0123456789abcdef"))

			sess, _ := s.New(requestWith(nil), cookieName)
			SetUser(sess, model.User{ID: 1, Username: "admin", IsAdmin: true})
			c := roundTrip(t, s, sess)
			id := sess.ID

			loaded, _ := s.New(requestWith(c), cookieName)
			Expire(loaded)
			cleared := roundTrip(t, s, loaded)
			assert.Equal(t, "", cleared.Value)
			assert.True(t, cleared.MaxAge < 0)

			_, err := b.Load(context.Background(), id)
			assert.ErrorIs(t, err, ErrNotFound)

			after, _ := s.New(requestWith(c), cookieName)
			_, ok := UserFrom(after)
			assert.False(t, ok)
		})
	}
}

func TestStore_FixedLifetime(t *testing.T) {
	b := NewMemoryBackend()
	s := NewStore(b, testOpts, []byte("0123456789abcdef0123456789abcdef"))
	start := time.Unix(1_700_000_000, 0)
	clock := start
	s.now = func() time.Time { return clock }
	b.now = func() time.Time { return clock }

	sess, _ := s.New(requestWith(nil), cookieName)
	SetUser(sess, model.User{ID: 1, Username: "admin", IsAdmin: true})
	c := roundTrip(t, s, sess)
	assert.Equal(t, 3600, c.MaxAge)

	// resaving half way through keeps the original deadline
	clock = start.Add(30 * time.Minute)
	loaded, _ := s.New(requestWith(c), cookieName)
	require.False(t, loaded.IsNew)
	c2 := roundTrip(t, s, loaded)
	assert.Equal(t, 1800, c2.MaxAge)
	assert.Equal(t, sess.ID, loaded.ID)

	clock = start.Add(time.Hour)
	expired, _ := s.New(requestWith(c2), cookieName)
	assert.True(t, expired.IsNew)
}

func TestMemoryBackend_PrunesOnWrite(t *testing.T) {
	b := NewMemoryBackend()
	clock := time.Unix(1_700_000_000, 0)
	b.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, b.Save(ctx, "b", []byte("2"), time.Hour))
	clock = clock.Add(2 * time.Minute)

	_, err := b.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, b.Len(), "reads do not prune")

	require.NoError(t, b.Save(ctx, "c", []byte("3"), time.Hour))
	assert.Equal(t, 2, b.Len())
}

func TestRedisBackend_TTL(t *testing.T) {
	b, mr := newRedisBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, "abc", []byte("payload"), 10*time.Second))
	assert.True(t, mr.Exists("test:sess:abc"))
	assert.Equal(t, 10*time.Second, mr.TTL("test:sess:abc"))

	data, err := b.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	mr.FastForward(11 * time.Second)
	_, err = b.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}
