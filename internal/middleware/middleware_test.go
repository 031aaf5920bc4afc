package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"college/internal/config"
	"college/internal/models"
)

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Body.String())
	require.NoError(t, err)
	assert.Equal(t, rec.Body.String(), rec.Header().Get(echo.HeaderXRequestID))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, incoming)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "<script>")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.NotEqual(t, "<script>", rec.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RecoveryMiddleware(zap.NewNop()))
	e.GET("/boom", func(c echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Now()
	assert.True(t, rl.allow("1.1.1.1", now))
	assert.True(t, rl.allow("1.1.1.1", now))
	assert.False(t, rl.allow("1.1.1.1", now))
	assert.True(t, rl.allow("2.2.2.2", now))
	assert.True(t, rl.allow("1.1.1.1", now.Add(2*time.Minute)))
}

func TestLoginRateLimiter(t *testing.T) {
	lrl := NewLoginRateLimiter(3, time.Minute)
	defer lrl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := lrl.Check("10.0.0.1")
		require.True(t, allowed)
		lrl.RecordFailure("10.0.0.1")
	}

	allowed, remaining := lrl.Check("10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, remaining, time.Duration(0))

	lrl.RecordSuccess("10.0.0.1")
	allowed, _ = lrl.Check("10.0.0.1")
	assert.True(t, allowed)
}

type stubAdmins struct {
	has   bool
	err   error
	calls int
}

func (s *stubAdmins) HasAnyAdmins(context.Context) (bool, error) {
	s.calls++
	return s.has, s.err
}

func TestSetupRequired(t *testing.T) {
	admins := &stubAdmins{}
	e := echo.New()
	e.Use(SetupRequired(admins, zap.NewNop()))
	e.GET("/", ok)
	e.GET("/setup", ok)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/setup", rec.Header().Get(echo.HeaderLocation))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/setup", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	admins.has = true
	for i := 0; i < 3; i++ {
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, admins.calls)

	down := &stubAdmins{err: errors.New("db down")}
	failing := echo.New()
	failing.Use(SetupRequired(down, zap.NewNop()))
	failing.GET("/", ok)
	for i := 0; i < 2; i++ {
		rec = httptest.NewRecorder()
		failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, down.calls)
}

type recordedVisit struct {
	page models.Page
	ip   string
	ua   string
}

type stubRecorder struct{ visits []recordedVisit }

func (s *stubRecorder) Record(_ context.Context, page models.Page, ip, ua string, _ time.Time) {
	s.visits = append(s.visits, recordedVisit{page, ip, ua})
}

func TestTrackVisit(t *testing.T) {
	rec := &stubRecorder{}
	e := echo.New()
	e.GET("/library", ok, TrackVisit(rec, models.PageLibrary))
	e.GET("/other", ok)
	e.GET("/broken", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}, TrackVisit(rec, models.PageResults))
	e.GET("/refused", func(c echo.Context) error {
		return c.String(http.StatusBadRequest, "no")
	}, TrackVisit(rec, models.PageGallery))

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "192.0.2.7:1234"
	e.ServeHTTP(httptest.NewRecorder(), req)
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/refused", nil))

	require.Len(t, rec.visits, 1)
	assert.Equal(t, recordedVisit{models.PageLibrary, "192.0.2.7", "test-agent"}, rec.visits[0])
}

func TestIPExtractor(t *testing.T) {
	_, internal, err := net.ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)

	tests := []struct {
		name    string
		proxies []*net.IPNet
		remote  string
		xff     string
		want    string
	}{
		{"no proxies ignores header", nil, "198.51.100.4:5555", "1.2.3.4", "198.51.100.4"},
		{"no proxies without header", nil, "198.51.100.4:5555", "", "198.51.100.4"},
		{"trusted proxy forwards client", []*net.IPNet{internal}, "10.1.1.1:80", "1.2.3.4, 203.0.113.5", "203.0.113.5"},
		{"chained trusted proxies", []*net.IPNet{internal}, "10.1.1.1:80", "203.0.113.5, 10.2.2.2", "203.0.113.5"},
		{"untrusted peer cannot forward", []*net.IPNet{internal}, "198.51.100.4:5555", "1.2.3.4", "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.IPExtractor = IPExtractor(tt.proxies)
			e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, c.RealIP()) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.xff)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	e.GET("/", ok)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "frame-src https://drive.google.com")
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			SecretKey:     "middleware-test-secret-0123456789",
			SessionName:   "college_test",
			SessionMaxAge: 3600,
		},
		Site: config.SiteConfig{URL: "http://localhost"},
	}
}

func TestCSRF(t *testing.T) {
	sm := NewSessionManager(testConfig(), nil)
	csrf := NewCSRF(sm, zap.NewNop())

	e := echo.New()
	e.Use(csrf.Middleware())
	e.GET("/form", func(c echo.Context) error { return c.String(http.StatusOK, GetCSRFToken(c)) })
	e.POST("/form", ok)
	e.POST("/api/v1/auth/login", ok)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	post := func(path, token string) int {
		form := url.Values{}
		if token != "" {
			form.Set("csrf_token", token)
		}
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, post("/form", ""))
	assert.Equal(t, http.StatusForbidden, post("/form", "forged"))
	assert.Equal(t, http.StatusOK, post("/form", token))
	assert.Equal(t, http.StatusOK, post("/api/v1/auth/login", ""))
}

func withUser(user *models.Admin) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				ctx := context.WithValue(c.Request().Context(), userContextKey, user)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.Admin
		role     models.Role
		wantCode int
	}{
		{"anonymous", nil, models.RoleTeacher, http.StatusSeeOther},
		{"teacher manages content", &models.Admin{Role: models.RoleTeacher}, models.RoleTeacher, http.StatusOK},
		{"teacher cannot admin", &models.Admin{Role: models.RoleTeacher}, models.RoleAdmin, http.StatusForbidden},
		{"admin can admin", &models.Admin{Role: models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/admin/users", ok, withUser(tt.user), RequireRole(tt.role))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusSeeOther {
				assert.Equal(t, "/admin/login?next=%2Fadmin%2Fusers", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}
