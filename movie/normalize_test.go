package movie_test

import (
	"errors"
	"kino/movie"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIMDbID(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{name: "full url", link: "https://www.imdb.com/title/tt0130827/", want: "tt0130827"},
		{name: "url without trailing slash", link: "http://imdb.com/title/tt0130827", want: "tt0130827"},
		{name: "bare id", link: "tt0130827", want: "tt0130827"},
		{name: "first matching segment wins", link: "https://imdb.com/title/tt1/tt2", want: "tt1"},
		{name: "no tt substring", link: "https://example.com/film/42", want: ""},
		{name: "tt only inside segment", link: "https://www.twitter.com/attic", want: ""},
		{name: "empty", link: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, movie.ExtractIMDbID(tt.link))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("should map post fields and apply defaults", func(t *testing.T) {
		// Arrange
		post := movie.RawPost{
			ID:      4711,
			Slug:    " lola-rennt ",
			Title:   " Lola rennt ",
			Content: " Berlin, 20 Minuten. ",
			CustomFields: movie.CustomFields{
				movie.FieldIMDbLink:   "https://www.imdb.com/title/tt0130827/",
				movie.FieldYear:       "1998",
				movie.FieldDirector:   "   ",
				movie.FieldImage:      "https://pmd.netzkino.de/lola.jpg",
				movie.FieldImageSmall: "https://pmd.netzkino.de/lola-small.jpg",
			},
		}
		days := []string{"2026-10-16"}

		// Act
		m, err := movie.Normalize(post, "lola", days, testPosterURL)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, movie.Movie{
			ID:                "lola-rennt",
			ExternalID:        4711,
			Slug:              "lola-rennt",
			Title:             "Lola rennt",
			Year:              "1998",
			Overview:          "Berlin, 20 Minuten.",
			Director:          "Unknown",
			Stars:             "Unknown",
			PosterURL:         "https://pmd.netzkino.de/lola.jpg",
			PosterURLSmall:    "https://pmd.netzkino.de/lola-small.jpg",
			PosterURLExternal: testPosterURL,
			Queries:           []string{"lola"},
			DateFetched:       []string{"2026-10-16"},
		}, m)

		days[0] = "changed"
		assert.Equal(t, "2026-10-16", m.DateFetched[0])
	})

	t.Run("should default missing year to zero", func(t *testing.T) {
		post := movie.RawPost{Slug: "x", Title: "X", CustomFields: movie.CustomFields{
			movie.FieldIMDbLink: "tt1",
		}}

		m, err := movie.Normalize(post, "x", nil, testPosterURL)

		require.NoError(t, err)
		assert.Equal(t, "0", m.Year)
		assert.Empty(t, m.PosterURL)
		assert.Empty(t, m.DateFetched)
	})

	rejections := []struct {
		name   string
		post   movie.RawPost
		poster string
		reason string
	}{
		{
			name:   "no custom fields",
			post:   movie.RawPost{Slug: "a"},
			poster: testPosterURL,
			reason: "no_custom_fields",
		},
		{
			name:   "no imdb link",
			post:   movie.RawPost{Slug: "b", CustomFields: movie.CustomFields{movie.FieldYear: "2001"}},
			poster: testPosterURL,
			reason: "no_imdb_id",
		},
		{
			name:   "link without id",
			post:   movie.RawPost{Slug: "c", CustomFields: movie.CustomFields{movie.FieldIMDbLink: "https://imdb.com/"}},
			poster: testPosterURL,
			reason: "no_imdb_id",
		},
		{
			name:   "no poster",
			post:   movie.RawPost{Slug: "d", CustomFields: movie.CustomFields{movie.FieldIMDbLink: "tt42"}},
			poster: "  ",
			reason: "no_poster",
		},
	}
	for _, tt := range rejections {
		t.Run("should reject post with "+tt.name, func(t *testing.T) {
			_, err := movie.Normalize(tt.post, "q", nil, tt.poster)

			var r *movie.Rejection
			require.True(t, errors.As(err, &r))
			assert.Equal(t, tt.reason, r.Reason)
			assert.Equal(t, tt.post.Slug, r.Slug)
		})
	}
}

func TestMergeBySlug(t *testing.T) {
	movies := []movie.Movie{
		{Slug: "a", Title: "old", Queries: []string{"x"}, DateFetched: []string{"2026-10-15"}},
		{Slug: "b", Title: "b", Queries: []string{"y"}},
		{Slug: "a", Title: "new", Queries: []string{"z", "x"}, DateFetched: []string{"2026-10-16"}},
	}

	merged := movie.MergeBySlug(movies)

	require.Len(t, merged, 2)
	assert.Equal(t, "new", merged[0].Title)
	assert.Equal(t, []string{"x", "z"}, merged[0].Queries)
	assert.Equal(t, []string{"2026-10-15", "2026-10-16"}, merged[0].DateFetched)
	assert.Equal(t, "b", merged[1].Slug)
}
