//nolint:unused
package httpserver_test

import (
	"encoding/json"
	"kino/pkg/config"
	kinojwt "kino/pkg/jwt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	return cfg
}

func testTokens() *kinojwt.JWTProvider {
	return kinojwt.NewJWTProvider(testJWTSecret, time.Hour, 24*time.Hour)
}

func signTestToken() (string, error) {
	return testTokens().GenerateAccessToken("test-admin", kinojwt.RoleAdmin)
}

// signTestTokenWithType signs claims by hand to cover tokens the provider never issues.
func signTestTokenWithType(role, typ string) (string, error) {
	claims := kinojwt.Claims{
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test-user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(testJWTSecret))
}

func userHeaders(t *testing.T, username string) map[string]string {
	t.Helper()
	token, err := testTokens().GenerateAccessToken(username, kinojwt.RoleUser)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	token, err := signTestToken()
	require.NoError(t, err)
	return map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}
}

type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Info    string          `json:"info"`
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeAPIResult(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	resp := decodeAPIResponse(t, rec)
	require.NoError(t, json.Unmarshal(resp.Result, out))
}
