package google_test

import (
	"context"
	"kino/auth"
	"kino/pkg/oauth/google"
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenURL    = "https://oauth2.googleapis.com/token"
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newProvider(t *testing.T) *google.Provider {
	t.Helper()
	p := google.NewProvider(google.Config{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
	})
	require.NotNil(t, p)
	return p
}

func TestNewProvider(t *testing.T) {
	assert.Nil(t, google.NewProvider(google.Config{ClientID: "client-1"}))
	assert.Nil(t, google.NewProvider(google.Config{}))
}

func TestProvider_AuthCodeURL(t *testing.T) {
	raw := newProvider(t).AuthCodeURL("state-1")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
}

func TestProvider_Exchange(t *testing.T) {
	t.Run("should return google profile", func(t *testing.T) {
		setupHTTPMock(t)
		httpmock.RegisterResponder(http.MethodPost, tokenURL,
			httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{
				"access_token": "google-access",
				"token_type":   "Bearer",
				"expires_in":   3600,
			}))
		httpmock.RegisterResponder(http.MethodGet, userInfoURL, func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer google-access" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, ""), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
				"email":          "anna@kino.de",
				"name":           "Anna",
				"verified_email": true,
			})
		})

		u, err := newProvider(t).Exchange(context.Background(), "code-1")

		require.NoError(t, err)
		assert.Equal(t, auth.OAuthUser{Email: "anna@kino.de", Name: "Anna", EmailVerified: true}, u)
	})

	t.Run("should reject bad code", func(t *testing.T) {
		setupHTTPMock(t)
		httpmock.RegisterResponder(http.MethodPost, tokenURL,
			httpmock.NewJsonResponderOrPanic(http.StatusBadRequest, map[string]string{"error": "invalid_grant"}))

		_, err := newProvider(t).Exchange(context.Background(), "bad")

		assert.ErrorIs(t, err, auth.ErrInvalidOAuthUser)
	})

	t.Run("should fail on user info error", func(t *testing.T) {
		setupHTTPMock(t)
		httpmock.RegisterResponder(http.MethodPost, tokenURL,
			httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{
				"access_token": "google-access",
				"token_type":   "Bearer",
			}))
		httpmock.RegisterResponder(http.MethodGet, userInfoURL, httpmock.NewStringResponder(http.StatusInternalServerError, ""))

		_, err := newProvider(t).Exchange(context.Background(), "code-1")

		assert.Error(t, err)
	})
}
