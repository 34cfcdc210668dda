package turnstile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Verify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"success":true,"error-codes":[],"hostname":"awfixer.com"}`,
		},
		{
			name:    "rejected token",
			status:  http.StatusOK,
			body:    `{"success":false,"error-codes":["invalid-input-response"]}`,
			wantErr: ErrVerificationFailed,
		},
		{
			name:    "cloudflare error",
			status:  http.StatusInternalServerError,
			wantErr: ErrUpstream,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "secret-key", r.PostForm.Get("secret"))
				assert.Equal(t, "client-token", r.PostForm.Get("response"))
				assert.Equal(t, "203.0.113.7", r.PostForm.Get("remoteip"))
				assert.NotEmpty(t, r.PostForm.Get("idempotency_key"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("secret-key", srv.URL, 0)
			res, err := client.Verify(context.Background(), "client-token", "203.0.113.7")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, "awfixer.com", res.Hostname)
		})
	}
}

func TestClient_Verify_NotConfigured(t *testing.T) {
	client := NewClient("", "http://unused", 0)
	_, err := client.Verify(context.Background(), "token", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
