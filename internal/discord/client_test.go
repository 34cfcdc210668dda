package discord

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func newClient(t *testing.T, handler http.HandlerFunc, cache Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(sl.Discard(), Config{BaseURL: srv.URL, GuildID: "g1", CacheTTL: time.Minute}, cache)
}

func TestClient_Membership(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMember bool
		wantErr    error
	}{
		{
			name:       "member",
			status:     http.StatusOK,
			body:       `{"nick":"ada","roles":["r1","r2"],"joined_at":"2024-01-01T00:00:00Z","user":{"id":"u1","username":"ada_l"}}`,
			wantMember: true,
		},
		{
			name:       "not a member",
			status:     http.StatusNotFound,
			body:       `{"message":"Unknown Guild","code":10004}`,
			wantMember: false,
		},
		{
			name:    "token rejected",
			status:  http.StatusUnauthorized,
			wantErr: ErrUnauthorized,
		},
		{
			name:    "discord down",
			status:  http.StatusInternalServerError,
			wantErr: ErrUpstream,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{`,
			wantErr: ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/@me/guilds/g1/member", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			m, err := client.Membership(context.Background(), "tok")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMember, m.Member)
			if tt.wantMember {
				assert.Equal(t, "ada", m.Nick)
				assert.Equal(t, []string{"r1", "r2"}, m.Roles)
				assert.Equal(t, "u1", m.UserID)
			}
		})
	}
}

func TestClient_Membership_UsesCache(t *testing.T) {
	var calls atomic.Int32
	cache := new(CacheMock)
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"roles":[],"user":{"id":"u1"}}`))
	}, cache)

	key := cacheKey("g1", "tok")
	cache.On("Get", mock.Anything, key, mock.Anything).Return(false, nil).Once()
	cache.On("Set", mock.Anything, key, mock.Anything, time.Minute).Return(nil).Once()

	m, err := client.Membership(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, m.Member)
	assert.Equal(t, int32(1), calls.Load())

	cache.On("Get", mock.Anything, key, mock.Anything).Return(true, nil).Once()
	_, err = client.Membership(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	cache.AssertExpectations(t)
}

func TestCacheKey_DoesNotLeakToken(t *testing.T) {
	key := cacheKey("g1", "secret-token")
	assert.NotContains(t, key, "secret-token")
	assert.Equal(t, key, cacheKey("g1", "secret-token"))
	assert.NotEqual(t, key, cacheKey("g2", "secret-token"))
}
