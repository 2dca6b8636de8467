package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio/internal/config"
	"github.com/folio-works/portfolio/internal/modules/repo"
	"github.com/folio-works/portfolio/internal/modules/service"
	"github.com/folio-works/portfolio/internal/modules/session"
)

func baseConfig() *config.Config {
	return &config.Config{
		App:        config.AppCfg{Name: "portfolio", Env: "test", Port: 8080},
		Admin:      config.AdminCfg{Username: "admin", Password: "container-pass"},
		Session:    config.SessionCfg{Secret: "container-secret-0123456789", CookieName: "portfolio.sid", MaxAgeSec: 60, Backend: config.SessionMemory},
		Storage:    config.StorageCfg{Backend: config.StorageMemory},
		Supabase:   config.SupabaseCfg{URL: "https://example.supabase.co", ServiceRoleKey: "key", Table: "projects"},
		LoginLimit: config.LoginLimitCfg{PerMinute: 10, Burst: 5},
	}
}

func container(cfg *config.Config) *do.Injector {
	inj := BuildContainer()
	do.OverrideValue(inj, cfg)
	do.OverrideValue(inj, zap.NewNop())
	return inj
}

func TestBuildContainer_ServesWithMemoryBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	inj := container(baseConfig())

	engine, err := do.Invoke[*gin.Engine](inj)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	_, isMemory := do.MustInvoke[session.Backend](inj).(*session.MemoryBackend)
	assert.True(t, isMemory)
}

func TestBuildContainer_SelectsBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.Storage.Backend = config.StorageSupabase
	cfg.Session.Backend = config.SessionRedis
	cfg.Redis.Addr = mr.Addr()
	inj := container(cfg)

	r, err := do.Invoke[repo.ProjectRepo](inj)
	require.NoError(t, err)
	assert.NotNil(t, r)

	b, err := do.Invoke[session.Backend](inj)
	require.NoError(t, err)
	_, isRedis := b.(*session.RedisBackend)
	assert.True(t, isRedis)
}

func TestBuildContainer_LogNotifierWithoutBroker(t *testing.T) {
	inj := container(baseConfig())

	n, err := do.Invoke[service.ContactNotifier](inj)
	require.NoError(t, err)
	assert.NotNil(t, n)
}
