package httpserver

import (
	"context"
	"fmt"
	"kino/auth"
	"kino/errs"
	"kino/movie"
	"kino/pkg/config"
	kinojwt "kino/pkg/jwt"
	"kino/pkg/sentry"
	"kino/user"
	"net/http"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 20

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// Registry collects the service metrics served on /metrics
	Registry *prometheus.Registry

	MovieService movie.Service
	UserService  user.Service
	AuthService  auth.Service

	JWTSecret string

	// RateLimit is the per-client request rate of the search endpoint
	RateLimit float64
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: []string{"*"},
		Registry:     prometheus.NewRegistry(),
		JWTSecret:    cfg.Auth.JWTSecret,
		RateLimit:    cfg.RateLimitRPS,
	}
	if cfg.Port != 0 {
		s.Addr = fmt.Sprintf(":%d", cfg.Port)
	}
	if origins := cfg.Origins(); origins != nil {
		s.AllowOrigins = origins
	}
	if s.RateLimit <= 0 {
		s.RateLimit = defaultRateLimit
	}
	s.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s.Router.HideBanner = true
	s.Router.Validator = NewValidator()
	s.Router.HTTPErrorHandler = customHTTPErrorHandler
	s.RegisterGlobalMiddlewares()
	api := s.Router.Group("/api")

	// PUBLIC
	public := api.Group("")
	s.RegisterPublicRoutes(public)

	// USER
	users := api.Group("/users", s.requireToken()...)
	s.RegisterUserRoutes(users)

	// PRIVATE
	private := api.Group("", s.requireToken()...)
	private.Use(requireAdmin)
	s.RegisterPrivateRoutes(private)
	s.RegisterHealthRoutes()
	s.RegisterMetricsRoutes()
	s.RegisterSwaggerRoutes()
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.RateLimit)))
}

// requireToken verifies the bearer token and accepts access tokens only.
func (s *Server) requireToken() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(s.JWTSecret),
			SigningMethod: "HS256",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(kinojwt.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return errs.Errorf(errs.EUNAUTHORIZED, "missing or invalid access token")
			},
		}),
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if !kinojwt.IsAccess(claimsFrom(c)) {
					return errs.Errorf(errs.EUNAUTHORIZED, "missing or invalid access token")
				}
				return next(c)
			}
		},
	}
}

// requireAdmin rejects access tokens that do not carry the admin role.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := kinojwt.RequireAdmin(claimsFrom(c)); err != nil {
			return errs.Errorf(errs.EFORBIDDEN, "admin role required")
		}
		return next(c)
	}
}

func claimsFrom(c echo.Context) *kinojwt.Claims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*kinojwt.Claims)
	return claims
}

// customHTTPErrorHandler maps application errors to appropriate HTTP status codes
func customHTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	// Check if it's an Echo HTTPError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		// Map application error codes to HTTP status codes
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
			message = errs.ErrorMessage(err)
		case errs.EFORBIDDEN:
			code = http.StatusForbidden
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		case errs.EUNAVAILABLE:
			code = http.StatusServiceUnavailable
			message = errs.ErrorMessage(err)
		case errs.EINTERNAL:
			code = http.StatusInternalServerError
			message = "Internal server error"
		}
	}

	if code >= http.StatusInternalServerError {
		sentry.WithContext(c).Error(err)
		c.Logger().Error(err)
	}

	// Don't write response if already committed
	if !c.Response().Committed {
		if err := writeError(c, code, message, "", err); err != nil {
			c.Logger().Error(err)
		}
	}
}

func (s *Server) RegisterPublicRoutes(g *echo.Group) {
	s.RegisterPublicMovieRoutes(g)
	s.RegisterAuthRoutes(g)
}

func (s *Server) RegisterPrivateRoutes(g *echo.Group) {
	s.RegisterPrivateMovieRoutes(g)
}
