package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/session"
	"github.com/folio-works/portfolio/internal/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(60, 2)
	clock := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"), "burst exhausted")
	assert.True(t, l.Allow("2.2.2.2"), "buckets are per ip")

	clock = clock.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "one token per second refills")

	clock = clock.Add(time.Hour)
	l.Allow("3.3.3.3")
	assert.Len(t, l.visitors, 1, "idle visitors are dropped")
}

func TestRateLimit_Returns429(t *testing.T) {
	r := gin.New()
	r.POST("/api/login", RateLimit(NewIPRateLimiter(1, 1)), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":429`)
}

func TestRequireAdmin(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend(), sessions.Options{Path: "/", MaxAge: 600, HttpOnly: true},
		[]byte("0123456789abcdef0123456789abcdef"))

	r := gin.New()
	r.Use(Session(store, "sid"))
	r.POST("/issue/:kind", func(c *gin.Context) {
		sess := SessionFrom(c)
		require.NotNil(t, sess)
		setTestUser(sess, c.Param("kind") == "admin")
		require.NoError(t, sess.Save(c.Request, c.Writer))
		c.Status(http.StatusNoContent)
	})
	r.GET("/secret", RequireAdmin(), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.String(http.StatusOK, u.Username)
	})

	issue := func(kind string) *http.Cookie {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/issue/"+kind, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
		return w.Result().Cookies()[0]
	}

	tests := []struct {
		name   string
		cookie *http.Cookie
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"signed in non admin", issue("viewer"), http.StatusForbidden},
		{"admin", issue("admin"), http.StatusOK},
		{"garbage cookie", &http.Cookie{Name: "sid", Value: "nope"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func setTestUser(sess *sessions.Session, admin bool) {
	name := "viewer"
	if admin {
		name = "admin"
	}
	session.SetUser(sess, model.User{ID: model.AdminUserID, Username: name, IsAdmin: admin})
}

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(ZapLogger(zap.New(core)))
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/about", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, p := range []string{"/api/ping", "/about", "/api/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.DebugLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
}

func TestMetrics_CountsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/projects/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(telemetry.HTTPRequests.WithLabelValues("GET", "/api/projects/:id", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects/def", nil))
	after := testutil.ToFloat64(telemetry.HTTPRequests.WithLabelValues("GET", "/api/projects/:id", "404"))
	assert.Equal(t, 2.0, after-before)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/"+strings.Repeat("x", 8), nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(telemetry.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
