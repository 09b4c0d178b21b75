package httpserver

import (
	"kino/errs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterPublicMovieRoutes(g *echo.Group) {
	g.GET("/movies/search", s.handleSearchMovies, s.rateLimiter())
	g.GET("/movies/daily", s.handleDailyMovies)
	g.GET("/movies", s.handleListMovies)
	g.GET("/movies/:slug", s.handleGetMovie)
}

func (s *Server) RegisterPrivateMovieRoutes(g *echo.Group) {
	g.POST("/movies", s.handleCreateMovie)
	g.PUT("/movies/:slug", s.handleUpdateMovie)
	g.DELETE("/movies/:slug", s.handleDeleteMovie)
}

// handleSearchMovies godoc
// @Summary Search Movies
// @Description Search Netzkino by title and return the titles that have TMDB backdrop art
// @Tags movies
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 429 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/movies/search [get]
func (s *Server) handleSearchMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	query := c.QueryParam("q")
	if query == "" {
		query = c.QueryParam("query")
	}

	results, err := s.MovieService.SearchByQuery(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, results)
}

// handleDailyMovies godoc
// @Summary Daily Movies
// @Description Return today's batch of five movies, fetching it on first request of the day
// @Tags movies
// @Produce json
// @Param names query string false "Comma separated list of name queries"
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/movies/daily [get]
func (s *Server) handleDailyMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	results, err := s.MovieService.DailyBatch(c.Request().Context(), splitNames(c.QueryParams()["names"]))
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, results)
}

// handleListMovies godoc
// @Summary List Movies
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	movies, err := s.MovieService.ListMovies(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, movies)
}

// handleGetMovie godoc
// @Summary Get Movie
// @Tags movies
// @Produce json
// @Param slug path string true "Movie slug"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{slug} [get]
func (s *Server) handleGetMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	m, err := s.MovieService.GetMovie(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, m)
}

// handleCreateMovie godoc
// @Summary Create Movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MovieRequest true "Movie"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/movies [post]
func (s *Server) handleCreateMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.MovieService.CreateMovie(c.Request().Context(), req.ToMovie())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusCreated, created)
}

// handleUpdateMovie godoc
// @Summary Update Movie
// @Description Replace a stored movie. The slug in the path wins over the body.
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Movie slug"
// @Param request body MovieRequest true "Movie"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{slug} [put]
func (s *Server) handleUpdateMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	slug := c.Param("slug")
	req.Slug = slug
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := s.MovieService.UpdateMovie(c.Request().Context(), slug, req.ToMovie())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, updated)
}

// handleDeleteMovie godoc
// @Summary Delete Movie
// @Tags movies
// @Security BearerAuth
// @Param slug path string true "Movie slug"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /api/movies/{slug} [delete]
func (s *Server) handleDeleteMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	if err := s.MovieService.DeleteMovie(c.Request().Context(), c.Param("slug")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// splitNames accepts both repeated and comma separated names parameters.
func splitNames(values []string) []string {
	var names []string
	for _, v := range values {
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}
