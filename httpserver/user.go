package httpserver

import (
	"kino/errs"
	"kino/user"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterUserRoutes(g *echo.Group) {
	g.GET("", s.handleListUsers, requireAdmin)
	g.GET("/me", s.handleCurrentUser)
	g.GET("/active/:user", s.handleActiveUser)
	g.GET("/watchlist/:user/:slug", s.handleWatchlistStatus)
	g.POST("/watchlist/:user/:slug", s.handleAddToWatchlist)
	g.DELETE("/watchlist/:user/:slug", s.handleRemoveFromWatchlist)
}

// WatchlistResponse reports whether a movie is on a user's watchlist.
type WatchlistResponse struct {
	InWatchlist bool     `json:"inWatchlist"`
	Favorites   []string `json:"favorites,omitempty"`
}

// handleListUsers godoc
// @Summary List Users
// @Description Get all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Router /api/users [get]
func (s *Server) handleListUsers(c echo.Context) error {
	if s.UserService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "user service not configured")
	}

	users, err := s.UserService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, users)
}

// handleCurrentUser godoc
// @Summary Current User
// @Description Return the signed-in user with their watchlist
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/users/me [get]
func (s *Server) handleCurrentUser(c echo.Context) error {
	if s.UserService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "user service not configured")
	}

	u, err := s.UserService.GetActiveUser(c.Request().Context(), claimsFrom(c).Subject)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, u)
}

// handleActiveUser godoc
// @Summary Active User
// @Description Return a user with the slugs on their watchlist
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user path string true "Username"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/users/active/{user} [get]
func (s *Server) handleActiveUser(c echo.Context) error {
	username, err := s.authorizeUser(c)
	if err != nil {
		return err
	}

	u, err := s.UserService.GetActiveUser(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, u)
}

// handleWatchlistStatus godoc
// @Summary Watchlist Status
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user path string true "Username"
// @Param slug path string true "Movie slug"
// @Success 200 {object} APIResponse
// @Router /api/users/watchlist/{user}/{slug} [get]
func (s *Server) handleWatchlistStatus(c echo.Context) error {
	username, err := s.authorizeUser(c)
	if err != nil {
		return err
	}

	in, err := s.UserService.InWatchlist(c.Request().Context(), username, c.Param("slug"))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, WatchlistResponse{InWatchlist: in})
}

// handleAddToWatchlist godoc
// @Summary Add To Watchlist
// @Description Add a stored movie to the watchlist. Adding it twice keeps one entry.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user path string true "Username"
// @Param slug path string true "Movie slug"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/users/watchlist/{user}/{slug} [post]
func (s *Server) handleAddToWatchlist(c echo.Context) error {
	username, err := s.authorizeUser(c)
	if err != nil {
		return err
	}

	u, err := s.UserService.AddToWatchlist(c.Request().Context(), username, c.Param("slug"))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, WatchlistResponse{InWatchlist: true, Favorites: u.Favorites})
}

// handleRemoveFromWatchlist godoc
// @Summary Remove From Watchlist
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user path string true "Username"
// @Param slug path string true "Movie slug"
// @Success 200 {object} APIResponse
// @Router /api/users/watchlist/{user}/{slug} [delete]
func (s *Server) handleRemoveFromWatchlist(c echo.Context) error {
	username, err := s.authorizeUser(c)
	if err != nil {
		return err
	}

	u, err := s.UserService.RemoveFromWatchlist(c.Request().Context(), username, c.Param("slug"))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, WatchlistResponse{InWatchlist: false, Favorites: u.Favorites})
}

// authorizeUser returns the :user path parameter once the caller may act on it.
func (s *Server) authorizeUser(c echo.Context) (string, error) {
	if s.UserService == nil {
		return "", errs.Errorf(errs.ENOTIMPLEMENTED, "user service not configured")
	}

	username := c.Param("user")
	claims := claimsFrom(c)
	if err := user.CanAccess(claims.Subject, user.Role(claims.Role), username); err != nil {
		return "", err
	}
	return username, nil
}
