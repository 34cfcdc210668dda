package portal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/password"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

type staticResolver models.Session

func (s staticResolver) Resolve(*http.Request) models.Session { return models.Session(s) }

func named(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := middlewarectx.SessionFrom(r.Context()); ok && s.User != nil {
			w.Header().Set("X-Session-User", s.User.ID)
		}
		_, _ = w.Write([]byte(name))
	})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hash, err := password.GetHash("admin-token")
	require.NoError(t, err)

	h := Handlers{
		Health:        named("health"),
		Search:        named("search"),
		SearchIndex:   named("search-index"),
		Turnstile:     named("turnstile"),
		Contact:       named("contact"),
		Login:         named("login"),
		Callback:      named("callback"),
		Logout:        named("logout"),
		Subscription:  named("subscription"),
		Session:       named("session"),
		Access:        named("access"),
		Discord:       named("discord"),
		ContentList:   named("content-list"),
		ContentRead:   named("content-read"),
		ContentUpsert: named("content-upsert"),
		ContentRemove: named("content-remove"),
	}
	r := chi.NewRouter()
	RegisterRoutes(r, sl.Discard(), h, RouteOptions{
		Sessions:       staticResolver{User: &models.User{ID: "42"}},
		Limiter:        middlewarectx.NewRateLimiter(0.001, 1),
		AdminTokenHash: hash,
	})
	return r
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/health", "health"},
		{http.MethodGet, "/api/v1/search?q=go", "search"},
		{http.MethodGet, "/api/v1/search/index", "search-index"},
		{http.MethodGet, "/api/v1/auth/patreon/login", "login"},
		{http.MethodGet, "/api/v1/auth/patreon/callback", "callback"},
		{http.MethodPost, "/api/v1/auth/logout", "logout"},
		{http.MethodGet, "/api/v1/account/subscription", "subscription"},
		{http.MethodGet, "/api/v1/account/session", "session"},
		{http.MethodGet, "/api/v1/account/access?tier=Gold", "access"},
		{http.MethodGet, "/api/v1/discord/membership", "discord"},
		{http.MethodGet, "/api/v1/content", "content-list"},
		{http.MethodGet, "/api/v1/content/guide", "content-read"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, rr.Body.String())
		})
	}
}

func TestRegisterRoutes_SessionOnlyOnGatedRoutes(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/content/guide", nil))
	assert.Equal(t, "42", rr.Header().Get("X-Session-User"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=go", nil))
	assert.Empty(t, rr.Header().Get("X-Session-User"))
}

func TestRegisterRoutes_AdminRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/v1/admin/content/guide", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/content/guide", nil)
	req.Header.Set(middlewarectx.AdminTokenHeader, "admin-token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "content-remove", rr.Body.String())
}

func TestRegisterRoutes_ContactIsRateLimited(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/turnstile/verify", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// Поиск не ограничивается
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterRoutes_Metrics(t *testing.T) {
	router := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "awfixer_portal_http_requests_total")
}
