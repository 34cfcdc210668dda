package patreon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

const identityFixture = `{
  "data": {"id": "1001", "type": "user", "attributes": {"full_name": "Ada Lovelace", "email": "ada@example.com"}},
  "included": [
    {
      "id": "m-other", "type": "member",
      "attributes": {"patron_status": "former_patron", "last_charge_status": "Paid"},
      "relationships": {"campaign": {"data": {"id": "999", "type": "campaign"}}, "currently_entitled_tiers": {"data": []}}
    },
    {
      "id": "m-1", "type": "member",
      "attributes": {"patron_status": "active_patron", "last_charge_status": "Paid"},
      "relationships": {
        "campaign": {"data": {"id": "555", "type": "campaign"}},
        "currently_entitled_tiers": {"data": [{"id": "t-silver", "type": "tier"}, {"id": "t-gold", "type": "tier"}]}
      }
    },
    {"id": "t-silver", "type": "tier", "attributes": {"title": "Silver", "amount_cents": 500}},
    {"id": "t-gold", "type": "tier", "attributes": {"title": "Gold", "amount_cents": 1500}},
    {"id": "555", "type": "campaign", "attributes": {}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, campaignID string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:      srv.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://awfixer.com/api/v1/auth/patreon/callback",
		CampaignID:   campaignID,
	})
}

func TestClient_Identity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, identityPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("include"), "memberships.currently_entitled_tiers")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(identityFixture))
	}, "555")

	identity, err := client.Identity(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.Equal(t, models.User{ID: "1001", Name: "Ada Lovelace", Email: "ada@example.com"}, identity.User)
	assert.Equal(t, models.StatusActivePatron, identity.Subscription.Status)
	assert.Equal(t, "Gold", identity.Subscription.Tier)
	assert.False(t, identity.Subscription.IsDelinquent)
	assert.JSONEq(t, identityFixture, string(identity.Raw))
}

func TestClient_Identity_NoCampaignFilterTakesFirstMember(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(identityFixture))
	}, "")

	identity, err := client.Identity(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFormerPatron, identity.Subscription.Status)
	assert.Empty(t, identity.Subscription.Tier)
}

func TestClient_Identity_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "unauthorized token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
		{
			name: "missing user id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"data":{}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, "")
			_, err := client.Identity(context.Background(), "tok")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}
}

func TestParseIdentity_DeclinedPatron(t *testing.T) {
	body := `{
	  "data": {"id": "7", "type": "user", "attributes": {"full_name": "Bob"}},
	  "included": [
	    {"id": "m", "type": "member", "attributes": {"patron_status": "declined_patron", "last_charge_status": "Declined"},
	     "relationships": {"currently_entitled_tiers": {"data": [{"id": "t", "type": "tier"}]}}},
	    {"id": "t", "type": "tier", "attributes": {"title": "Bronze", "amount_cents": 100}}
	  ]
	}`

	identity, err := parseIdentity([]byte(body), "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclinedPatron, identity.Subscription.Status)
	assert.True(t, identity.Subscription.IsDelinquent)
	assert.Equal(t, "Bronze", identity.Subscription.Tier)
}

func TestParseIdentity_MalformedMember(t *testing.T) {
	body := `{
	  "data": {"id": "7", "type": "user", "attributes": {"full_name": "Bob"}},
	  "included": [
	    {"id": "m", "type": "member", "attributes": {"patron_status": 5}}
	  ]
	}`

	identity, err := parseIdentity([]byte(body), "")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestParseIdentity_NoMemberships(t *testing.T) {
	identity, err := parseIdentity([]byte(`{"data":{"id":"7","type":"user","attributes":{}}}`), "555")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, identity.Subscription.Status)
}

func TestClient_ExchangeCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tokenPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		_, _ = w.Write([]byte(`{"access_token":"acc","refresh_token":"ref","expires_in":2678400,"token_type":"Bearer"}`))
	}, "")

	token, err := client.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "acc", token.AccessToken)
	assert.Equal(t, "ref", token.RefreshToken)
	assert.Equal(t, int64(2678400), token.ExpiresIn)
}

func TestClient_ExchangeCode_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}, "")

	_, err := client.ExchangeCode(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_AuthorizeURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://www.patreon.com/", ClientID: "cid", RedirectURI: "https://awfixer.com/cb"})

	u, err := url.Parse(client.AuthorizeURL("state-token"))
	require.NoError(t, err)
	assert.Equal(t, "/oauth2/authorize", u.Path)
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "state-token", u.Query().Get("state"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
}
