package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/auth"
	"github.com/figures-analytics/figures/internal/shared/authorization"
	"github.com/figures-analytics/figures/internal/shared/constants"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSites struct {
	sites   map[string]*platform.Site
	err     error
	lookups []string
}

func (f *fakeSites) GetByDomain(_ context.Context, domain string) (*platform.Site, error) {
	f.lookups = append(f.lookups, domain)
	if f.err != nil {
		return nil, f.err
	}
	return f.sites[domain], nil
}

type fakeEnforcer struct {
	allowed map[string]bool
	err     error
}

func (f *fakeEnforcer) Enforce(role, _, _ string) (bool, error) {
	return f.allowed[role], f.err
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	t.Run("generated", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := w.Header().Get(constants.HeaderXRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderXRequestID, "abc-123")
		w := serve(engine, req)
		assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
	})
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", "figures", 5)
	staffToken, err := jwtSvc.Generate(42, "staffer", authorization.RoleStaff)
	require.NoError(t, err)
	otherIssuer, err := auth.NewJWTService("test-secret", "someone-else", 5).Generate(42, "staffer", authorization.RoleStaff)
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(NewAuthMiddleware(jwtSvc, logger.NewNop()).RequireAuth())
	engine.GET("/me", func(c *gin.Context) {
		userID, _ := c.Get(constants.ContextKeyUserID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": c.GetString(constants.ContextKeyUserRole)})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + staffToken, http.StatusOK},
		{"lowercase scheme", "bearer " + staffToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + staffToken, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + otherIssuer, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := serve(engine, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":42,"role":"staff"}`, w.Body.String())
			}
		})
	}
}

func TestPermissionMiddleware_RequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		enforcer   *fakeEnforcer
		wantStatus int
	}{
		{"allowed", "staff", &fakeEnforcer{allowed: map[string]bool{"staff": true}}, http.StatusOK},
		{"denied", "learner", &fakeEnforcer{allowed: map[string]bool{"staff": true}}, http.StatusForbidden},
		{"unauthenticated", "", &fakeEnforcer{}, http.StatusUnauthorized},
		{"enforcer error", "staff", &fakeEnforcer{err: errors.New("adapter down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(constants.ContextKeyUserRole, tt.role)
				}
				c.Next()
			})
			engine.Use(NewPermissionMiddleware(tt.enforcer, logger.NewNop()).RequirePermission())
			engine.GET("/figures/api/user-index", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := serve(engine, httptest.NewRequest(http.MethodGet, "/figures/api/user-index", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSiteMiddleware_ResolveSite(t *testing.T) {
	defaultSite := &platform.Site{ID: 1, Domain: "learn.example.com"}
	otherSite := &platform.Site{ID: 2, Domain: "school.example.org"}

	newEngine := func(sites *fakeSites, multisite bool) *gin.Engine {
		engine := gin.New()
		engine.Use(NewSiteMiddleware(sites, "learn.example.com", multisite, logger.NewNop()).ResolveSite())
		engine.GET("/site", func(c *gin.Context) {
			c.String(http.StatusOK, SiteFromContext(c).Domain)
		})
		return engine
	}

	t.Run("host match", func(t *testing.T) {
		sites := &fakeSites{sites: map[string]*platform.Site{
			"learn.example.com":  defaultSite,
			"school.example.org": otherSite,
		}}
		req := httptest.NewRequest(http.MethodGet, "/site", nil)
		req.Host = "School.Example.org:8000"
		w := serve(newEngine(sites, true), req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "school.example.org", w.Body.String())
	})

	t.Run("unknown host falls back to default", func(t *testing.T) {
		sites := &fakeSites{sites: map[string]*platform.Site{"learn.example.com": defaultSite}}
		req := httptest.NewRequest(http.MethodGet, "/site", nil)
		req.Host = "unknown.example.net"
		w := serve(newEngine(sites, true), req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "learn.example.com", w.Body.String())
		assert.Equal(t, []string{"unknown.example.net", "learn.example.com"}, sites.lookups)
	})

	t.Run("single site ignores host", func(t *testing.T) {
		sites := &fakeSites{sites: map[string]*platform.Site{
			"learn.example.com":  defaultSite,
			"school.example.org": otherSite,
		}}
		req := httptest.NewRequest(http.MethodGet, "/site", nil)
		req.Host = "school.example.org"
		w := serve(newEngine(sites, false), req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "learn.example.com", w.Body.String())
	})

	t.Run("no site at all", func(t *testing.T) {
		w := serve(newEngine(&fakeSites{}, true), httptest.NewRequest(http.MethodGet, "/site", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("lookup error", func(t *testing.T) {
		w := serve(newEngine(&fakeSites{err: errors.New("db down")}, true), httptest.NewRequest(http.MethodGet, "/site", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://dashboard.example.com"}))
	engine.GET("/figures/api/site-daily-metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/figures/api/site-daily-metrics", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		w := serve(engine, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/figures/api/site-daily-metrics", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := serve(engine, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNop()))
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
