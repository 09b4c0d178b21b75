package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"kino/errs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const oauthStateCookie = "oauth_state"

func (s *Server) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/auth/google/login", s.handleGoogleLogin)
	g.GET("/auth/google/callback", s.handleGoogleCallback)
	g.POST("/auth/refresh", s.handleRefresh)
}

// handleGoogleLogin godoc
// @Summary Google OAuth Login
// @Description Get Google OAuth2 authorization URL
// @Tags auth
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 501 {object} APIResponse
// @Router /api/auth/google/login [get]
func (s *Server) handleGoogleLogin(c echo.Context) error {
	if s.AuthService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "auth service not configured")
	}

	state, err := generateOAuthState(32)
	if err != nil {
		return err
	}

	authURL, err := s.AuthService.GoogleAuthURL(state)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((5 * time.Minute).Seconds()),
	})

	return writeSuccess(c, http.StatusOK, map[string]string{
		"authUrl": authURL,
	})
}

// handleGoogleCallback godoc
// @Summary Google OAuth Callback
// @Description Exchange Google OAuth2 code for tokens, creating the user on first login
// @Tags auth
// @Produce json
// @Param code query string true "OAuth code"
// @Param state query string true "OAuth state"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/auth/google/callback [get]
func (s *Server) handleGoogleCallback(c echo.Context) error {
	if s.AuthService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "auth service not configured")
	}

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return errs.Errorf(errs.EINVALID, "missing code or state")
	}

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		return errs.Errorf(errs.EUNAUTHORIZED, "invalid oauth state")
	}

	session, err := s.AuthService.LoginWithGoogle(c.Request().Context(), code)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})

	return writeSuccess(c, http.StatusOK, session)
}

// handleRefresh godoc
// @Summary Refresh Access Token
// @Description Refresh access token using refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh Token"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/auth/refresh [post]
func (s *Server) handleRefresh(c echo.Context) error {
	if s.AuthService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "auth service not configured")
	}

	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := s.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, session)
}

func generateOAuthState(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid state length")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
