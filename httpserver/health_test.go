package httpserver_test

import (
	"kino/httpserver"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthcheck(t *testing.T) {
	tests := []struct {
		name   string
		server func() *httpserver.Server
		movies string
	}{
		{
			name:   "without movie service",
			server: func() *httpserver.Server { return httpserver.Default(testConfig()) },
			movies: "not_configured",
		},
		{
			name:   "with movie service",
			server: func() *httpserver.Server { return newMovieServer(new(MockMovieService)) },
			movies: "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := makeRequest(tt.server(), http.MethodGet, "/healthcheck", nil)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"200"`)
			assert.Contains(t, rec.Body.String(), `"message":"OK"`)
			assert.Contains(t, rec.Body.String(), `"status":"OK"`)
			assert.Contains(t, rec.Body.String(), `"movies":"`+tt.movies+`"`)
			assert.Contains(t, rec.Body.String(), `"users":"not_configured"`)
		})
	}
}

func TestHealthcheck_UserServices(t *testing.T) {
	server := newUserServer(new(MockUserService), new(MockAuthService))

	rec := makeRequest(server, http.MethodGet, "/healthcheck", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"users":"ready"`)
	assert.Contains(t, rec.Body.String(), `"auth":"ready"`)
}
