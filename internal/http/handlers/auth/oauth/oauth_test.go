package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/accountcookie"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	"github.com/magabrotheeeer/awfixer-portal/internal/patreon"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) AuthorizeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *ProviderMock) ExchangeCode(ctx context.Context, code string) (*patreon.Token, error) {
	args := m.Called(ctx, code)
	if res := args.Get(0); res != nil {
		return res.(*patreon.Token), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProviderMock) Identity(ctx context.Context, token string) (*patreon.Identity, error) {
	args := m.Called(ctx, token)
	if res := args.Get(0); res != nil {
		return res.(*patreon.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig() Config {
	return Config{
		Cookie:         accountcookie.Options{Name: "awfixer_account", TTL: time.Hour, Secure: true},
		StateTTL:       10 * time.Minute,
		LoginRedirect:  "/members",
		LogoutRedirect: "/",
	}
}

func findCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSafeReturnPath(t *testing.T) {
	tests := map[string]string{
		"/members/gold?x=1":      "/members/gold?x=1",
		"":                       "/fallback",
		"https://evil.example":   "/fallback",
		"//evil.example/path":    "/fallback",
		"/\\evil.example":        "/fallback",
		"members":                "/fallback",
		"/ok\r\nSet-Cookie: a=b": "/fallback",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeReturnPath(in, "/fallback"), in)
	}
}

func TestLogin(t *testing.T) {
	states := jwt.NewStateMaker("secret", 10*time.Minute)
	provider := new(ProviderMock)
	provider.On("AuthorizeURL", mock.AnythingOfType("string")).Return("https://www.patreon.com/oauth2/authorize?x=1").Once()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/patreon/login?return_to=%2Fmembers%2Fgold", nil)
	NewLogin(sl.Discard(), provider, states, testConfig()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://www.patreon.com/oauth2/authorize?x=1", rr.Header().Get("Location"))

	c := findCookie(t, rr, StateCookieName)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 600, c.MaxAge)

	claims, err := states.Parse(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "/members/gold", claims.ReturnTo)
	provider.AssertCalled(t, "AuthorizeURL", c.Value)
}

func TestLogin_StateError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/patreon/login", nil)
	NewLogin(sl.Discard(), new(ProviderMock), jwt.NewStateMaker("", time.Minute), testConfig()).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func callbackRequest(state, cookieState, code string, extra ...*http.Cookie) *http.Request {
	q := url.Values{}
	if state != "" {
		q.Set("state", state)
	}
	if code != "" {
		q.Set("code", code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/patreon/callback?"+q.Encode(), nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: StateCookieName, Value: cookieState})
	}
	for _, c := range extra {
		req.AddCookie(c)
	}
	return req
}

func TestCallback_Success(t *testing.T) {
	states := jwt.NewStateMaker("secret", 10*time.Minute)
	state, err := states.Generate("/members/gold")
	require.NoError(t, err)

	provider := new(ProviderMock)
	provider.On("ExchangeCode", mock.Anything, "the-code").
		Return(&patreon.Token{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600}, nil).Once()
	provider.On("Identity", mock.Anything, "at").Return(&patreon.Identity{
		User: models.User{ID: "42", Name: "Jane", Email: "jane@example.com"},
	}, nil).Once()

	prev, err := accountcookie.Encode(models.Account{AccessToken: "old", DiscordAccessToken: "discord"})
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	h := NewCallback(sl.Discard(), provider, states, testConfig())
	h.now = func() time.Time { return now }

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, callbackRequest(state, state, "the-code", &http.Cookie{Name: "awfixer_account", Value: prev}))

	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/members/gold", rr.Header().Get("Location"))

	c := findCookie(t, rr, "awfixer_account")
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)

	acc, err := accountcookie.Decode(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "at", acc.AccessToken)
	assert.Equal(t, "rt", acc.RefreshToken)
	assert.Equal(t, "discord", acc.DiscordAccessToken)
	assert.Equal(t, now.Add(time.Hour).Unix(), acc.ExpiresAt)
	require.NotNil(t, acc.User)
	assert.Equal(t, "42", acc.User.ID)

	sc := findCookie(t, rr, StateCookieName)
	require.NotNil(t, sc)
	assert.Equal(t, -1, sc.MaxAge)
	provider.AssertExpectations(t)
}

func TestCallback_Errors(t *testing.T) {
	states := jwt.NewStateMaker("secret", 10*time.Minute)
	state, err := states.Generate("/members")
	require.NoError(t, err)
	foreign, err := jwt.NewStateMaker("other", time.Minute).Generate("/members")
	require.NoError(t, err)

	tests := []struct {
		name       string
		req        *http.Request
		setupMock  func(*ProviderMock)
		wantStatus int
		wantError  string
	}{
		{
			name:       "отказ пользователя",
			req:        httptest.NewRequest(http.MethodGet, "/cb?error=access_denied", nil),
			setupMock:  func(*ProviderMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Patreon authorization was denied",
		},
		{
			name:       "нет кода",
			req:        callbackRequest(state, state, ""),
			setupMock:  func(*ProviderMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "missing code or state",
		},
		{
			name:       "state не совпадает с cookie",
			req:        callbackRequest(state, "other", "code"),
			setupMock:  func(*ProviderMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid oauth state",
		},
		{
			name:       "нет cookie state",
			req:        callbackRequest(state, "", "code"),
			setupMock:  func(*ProviderMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid oauth state",
		},
		{
			name:       "state подписан другим ключом",
			req:        callbackRequest(foreign, foreign, "code"),
			setupMock:  func(*ProviderMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid oauth state",
		},
		{
			name: "ошибка обмена кода",
			req:  callbackRequest(state, state, "code"),
			setupMock: func(m *ProviderMock) {
				m.On("ExchangeCode", mock.Anything, "code").Return(nil, patreon.ErrUpstream).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to complete Patreon sign-in",
		},
		{
			name: "ошибка профиля",
			req:  callbackRequest(state, state, "code"),
			setupMock: func(m *ProviderMock) {
				m.On("ExchangeCode", mock.Anything, "code").Return(&patreon.Token{AccessToken: "at"}, nil).Once()
				m.On("Identity", mock.Anything, "at").Return(nil, errors.New("boom")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to complete Patreon sign-in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(ProviderMock)
			tt.setupMock(provider)

			rr := httptest.NewRecorder()
			NewCallback(sl.Discard(), provider, states, testConfig()).ServeHTTP(rr, tt.req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, `{"status":"Error","error":"`+tt.wantError+`"}`, rr.Body.String())
			assert.Nil(t, findCookie(t, rr, "awfixer_account"))
			provider.AssertExpectations(t)
		})
	}
}

func TestLogout(t *testing.T) {
	rr := httptest.NewRecorder()
	NewLogout(testConfig()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"redirect":"/"}}`, rr.Body.String())
	c := findCookie(t, rr, "awfixer_account")
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}
