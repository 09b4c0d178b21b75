package movie_test

import (
	"context"
	"fmt"
	"kino/movie"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockContentSearcher struct {
	mock.Mock
}

func (m *MockContentSearcher) Search(ctx context.Context, query string) ([]movie.RawPost, error) {
	args := m.Called(ctx, query)
	posts, _ := args.Get(0).([]movie.RawPost)
	return posts, args.Error(1)
}

type MockPosterLookup struct {
	mock.Mock
}

func (m *MockPosterLookup) LookupPoster(ctx context.Context, imdbID string) (movie.PosterResult, error) {
	args := m.Called(ctx, imdbID)
	return args.Get(0).(movie.PosterResult), args.Error(1)
}

type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) SaveAll(ctx context.Context, movies []movie.Movie) error {
	args := m.Called(ctx, movies)
	return args.Error(0)
}

func (m *MockMovieRepository) FindBySlug(ctx context.Context, slug string) (movie.Movie, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) FindByQuery(ctx context.Context, query string) ([]movie.Movie, error) {
	args := m.Called(ctx, query)
	movies, _ := args.Get(0).([]movie.Movie)
	return movies, args.Error(1)
}

func (m *MockMovieRepository) FindByDateFetched(ctx context.Context, day string) ([]movie.Movie, error) {
	args := m.Called(ctx, day)
	movies, _ := args.Get(0).([]movie.Movie)
	return movies, args.Error(1)
}

func (m *MockMovieRepository) AllMovies(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	movies, _ := args.Get(0).([]movie.Movie)
	return movies, args.Error(1)
}

func (m *MockMovieRepository) CreateMovie(ctx context.Context, mv movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) UpdateMovie(ctx context.Context, mv movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) DeleteMovie(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type MockQueryRepository struct {
	mock.Mock
}

func (m *MockQueryRepository) SaveQuery(ctx context.Context, query string) error {
	args := m.Called(ctx, query)
	return args.Error(0)
}

func (m *MockQueryRepository) QueryExists(ctx context.Context, query string) (bool, error) {
	args := m.Called(ctx, query)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueryRepository) AllQueries(ctx context.Context) ([]movie.Query, error) {
	args := m.Called(ctx)
	queries, _ := args.Get(0).([]movie.Query)
	return queries, args.Error(1)
}

// zeroReader makes crypto/rand.Int always pick index 0.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

var testNow = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

const testDay = "2026-10-16"

const testPosterURL = "https://image.tmdb.org/t/p/original/backdrop.jpg"

func testPost(i int) movie.RawPost {
	return movie.RawPost{
		ID:      int64(1000 + i),
		Slug:    fmt.Sprintf("movie-%d", i),
		Title:   fmt.Sprintf("  Movie %d ", i),
		Content: "A film.",
		CustomFields: movie.CustomFields{
			movie.FieldIMDbLink: fmt.Sprintf("https://www.imdb.com/title/tt%07d/", i),
			movie.FieldYear:     "1999",
		},
	}
}

func testPosts(from, n int) []movie.RawPost {
	posts := make([]movie.RawPost, 0, n)
	for i := from; i < from+n; i++ {
		posts = append(posts, testPost(i))
	}
	return posts
}

func storedMovies(query string, n int) []movie.Movie {
	movies := make([]movie.Movie, 0, n)
	for i := 0; i < n; i++ {
		slug := fmt.Sprintf("%s-%d", query, i)
		movies = append(movies, movie.Movie{
			ID:                slug,
			Slug:              slug,
			Title:             slug,
			PosterURLExternal: testPosterURL,
			Queries:           []string{query},
			DateFetched:       []string{},
		})
	}
	return movies
}
