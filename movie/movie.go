package movie

import (
	"kino/errs"
	"strings"
	"time"
)

var (
	ErrInvalidQuery        = errs.Errorf(errs.EINVALID, "movie: search query cannot be empty")
	ErrQueryTooLong        = errs.Errorf(errs.EINVALID, "movie: search query is too long")
	ErrQueryNotAllowed     = errs.Errorf(errs.EINVALID, "movie: search query contains invalid characters")
	ErrInsufficientResults = errs.Errorf(errs.EUNAVAILABLE, "failed to fetch %d movies after %d attempts", BatchSize, MaxAttempts)
	ErrMovieNotFound       = errs.Errorf(errs.ENOTFOUND, "movie not found")
	ErrMovieExists         = errs.Errorf(errs.ECONFLICT, "movie already exists")
	ErrInvalidSlug         = errs.Errorf(errs.EINVALID, "movie: invalid slug")
	ErrInvalidTitle        = errs.Errorf(errs.EINVALID, "movie: invalid title")
)

// DayLayout is the calendar date format used for day cache keys and DateFetched entries.
const DayLayout = "2006-01-02"

// Movie is a Netzkino title enriched with TMDB backdrop art. Slug is its identity.
type Movie struct {
	ID                string   `json:"id"`
	ExternalID        int64    `json:"netzkinoId"`
	Slug              string   `json:"slug"`
	Title             string   `json:"title"`
	Year              string   `json:"year"`
	Overview          string   `json:"overview"`
	Director          string   `json:"regisseur"`
	Stars             string   `json:"stars"`
	PosterURL         string   `json:"imgNetzkino"`
	PosterURLSmall    string   `json:"imgNetzkinoSmall"`
	PosterURLExternal string   `json:"imgImdb"`
	Queries           []string `json:"queries"`
	DateFetched       []string `json:"dateFetched"`
}

func (m Movie) Validate() error {
	if strings.TrimSpace(m.Slug) == "" {
		return ErrInvalidSlug
	}
	if strings.TrimSpace(m.Title) == "" {
		return ErrInvalidTitle
	}
	return nil
}

// Query records a search term that has already populated the store.
type Query struct {
	Query string `json:"query"`
}

// Day returns the UTC calendar date of t in DayLayout.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func cloneMovies(movies []Movie) []Movie {
	out := make([]Movie, len(movies))
	copy(out, movies)
	return out
}

func limit(movies []Movie, n int) []Movie {
	if len(movies) > n {
		movies = movies[:n]
	}
	return cloneMovies(movies)
}
