package movie_test

import (
	"kino/errs"
	"kino/movie"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	for _, err := range []error{
		movie.ErrInvalidQuery,
		movie.ErrQueryTooLong,
		movie.ErrQueryNotAllowed,
		movie.ErrInsufficientResults,
		movie.ErrMovieNotFound,
		movie.ErrMovieExists,
		movie.ErrInvalidSlug,
		movie.ErrInvalidTitle,
		movie.ErrUpstreamUnavailable,
	} {
		msg := errs.ErrorMessage(err)
		assert.NotEmpty(t, msg)
		assert.False(t, unicode.IsUpper([]rune(msg)[0]), "starts lower-case: %q", msg)
		assert.False(t, strings.HasSuffix(msg, "."), "no trailing period: %q", msg)
	}

	assert.Equal(t, "failed to fetch 5 movies after 10 attempts", errs.ErrorMessage(movie.ErrInsufficientResults))
}
