package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// RegisterMetricsRoutes exposes the service registry, not the global default one.
func (s *Server) RegisterMetricsRoutes() {
	s.Router.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))
}

func (s *Server) RegisterSwaggerRoutes() {
	s.Router.GET("/swagger/*", echoSwagger.WrapHandler)
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive and which services are wired
// @Tags health
// @Success 200 {object} APIResponse
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "OK",
		"movies": readiness(s.MovieService != nil),
		"users":  readiness(s.UserService != nil),
		"auth":   readiness(s.AuthService != nil),
	})
}

func readiness(wired bool) string {
	if wired {
		return "ready"
	}
	return "not_configured"
}
