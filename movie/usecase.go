package movie

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"kino/errs"
	"kino/pkg/metrics"
	"log/slog"
	"strings"
	"time"
)

const (
	// BatchSize is the number of movies served per day.
	BatchSize = 5
	// MaxAttempts bounds the content API calls of one daily fetch.
	MaxAttempts = 10
)

var ErrUpstreamUnavailable = errs.Errorf(errs.EUNAVAILABLE, "content service unavailable")

type Service interface {
	SearchByQuery(ctx context.Context, query string) ([]Movie, error)
	DailyBatch(ctx context.Context, names []string) ([]Movie, error)
	ListMovies(ctx context.Context) ([]Movie, error)
	GetMovie(ctx context.Context, slug string) (Movie, error)
	CreateMovie(ctx context.Context, m Movie) (Movie, error)
	UpdateMovie(ctx context.Context, slug string, m Movie) (Movie, error)
	DeleteMovie(ctx context.Context, slug string) error
}

// ContentSearcher queries the content API. No posts is an empty slice, not an error.
type ContentSearcher interface {
	Search(ctx context.Context, query string) ([]RawPost, error)
}

// Repository persists movies keyed by slug.
type Repository interface {
	// SaveAll upserts by slug, merging Queries and DateFetched.
	SaveAll(ctx context.Context, movies []Movie) error
	FindBySlug(ctx context.Context, slug string) (Movie, error)
	FindByQuery(ctx context.Context, query string) ([]Movie, error)
	FindByDateFetched(ctx context.Context, day string) ([]Movie, error)
	AllMovies(ctx context.Context) ([]Movie, error)
	CreateMovie(ctx context.Context, m Movie) error
	UpdateMovie(ctx context.Context, m Movie) error
	DeleteMovie(ctx context.Context, slug string) error
}

// QueryRepository records search terms that already populated the store.
type QueryRepository interface {
	SaveQuery(ctx context.Context, query string) error
	QueryExists(ctx context.Context, query string) (bool, error)
	AllQueries(ctx context.Context) ([]Query, error)
}

type Dependencies struct {
	Content ContentSearcher
	Posters PosterLookup
	Movies  Repository
	Queries QueryRepository
	Caches  *Caches
}

type Option func(uc *Usecase)

func WithClock(now func() time.Time) Option {
	return func(uc *Usecase) { uc.now = now }
}

// WithRand sets the entropy source for query selection.
func WithRand(rng io.Reader) Option {
	return func(uc *Usecase) { uc.rng = rng }
}

func WithLogger(logger *slog.Logger) Option {
	return func(uc *Usecase) { uc.logger = logger }
}

func WithMetrics(m *metrics.Pipeline) Option {
	return func(uc *Usecase) { uc.metrics = m }
}

func WithNamePool(pool []string) Option {
	return func(uc *Usecase) {
		uc.pool = make([]string, len(pool))
		copy(uc.pool, pool)
	}
}

type Usecase struct {
	content  ContentSearcher
	enricher *Enricher
	movies   Repository
	queries  QueryRepository
	caches   *Caches

	now     func() time.Time
	rng     io.Reader
	pool    []string
	logger  *slog.Logger
	metrics *metrics.Pipeline
}

func NewUsecase(deps Dependencies, opts ...Option) *Usecase {
	uc := &Usecase{
		content: deps.Content,
		movies:  deps.Movies,
		queries: deps.Queries,
		caches:  deps.Caches,
		now:     time.Now,
		rng:     rand.Reader,
		pool:    DefaultNamePool(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.caches == nil {
		uc.caches = NewCaches()
	}
	uc.enricher = NewEnricher(deps.Posters, uc.logger)
	return uc
}

// Warm loads every recorded query and today's batch from the store into the caches.
func (uc *Usecase) Warm(ctx context.Context) error {
	queries, err := uc.queries.AllQueries(ctx)
	if err != nil {
		return fmt.Errorf("warm search cache: %w", err)
	}
	for _, q := range queries {
		movies, err := uc.movies.FindByQuery(ctx, q.Query)
		if err != nil {
			return fmt.Errorf("warm search cache for %q: %w", q.Query, err)
		}
		uc.caches.SetSearch(q.Query, movies)
	}

	today := Day(uc.now())
	movies, err := uc.movies.FindByDateFetched(ctx, today)
	if err != nil {
		return fmt.Errorf("warm daily cache: %w", err)
	}
	if len(movies) > 0 {
		uc.caches.SetDaily(today, movies)
	}

	search, daily := uc.caches.Len()
	uc.logger.Info("caches warmed", "search_entries", search, "daily_entries", daily, "day", today)
	return nil
}

func (uc *Usecase) SearchByQuery(ctx context.Context, query string) ([]Movie, error) {
	q, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	if movies, ok := uc.caches.Search(q); ok {
		uc.metrics.CacheLookup(metrics.CacheSearch, metrics.ResultHit)
		return movies, nil
	}

	used, err := uc.queries.QueryExists(ctx, q)
	if err != nil {
		return nil, err
	}
	stored, err := uc.movies.FindByQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	if used || len(stored) > 0 {
		uc.metrics.CacheLookup(metrics.CacheSearch, metrics.ResultStore)
		uc.caches.SetSearch(q, stored)
		return cloneMovies(stored), nil
	}
	uc.metrics.CacheLookup(metrics.CacheSearch, metrics.ResultMiss)

	posts, err := uc.content.Search(ctx, q)
	uc.metrics.Upstream(metrics.UpstreamNetzkino, err)
	if err != nil {
		uc.logger.Error("content search failed", "query", q, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	found := uc.collect(ctx, posts, q, nil)
	if err := uc.persist(ctx, found, q); err != nil {
		return nil, err
	}
	uc.caches.SetSearch(q, found)

	uc.logger.Info("search stored", "query", q, "posts", len(posts), "movies", len(found))
	return cloneMovies(found), nil
}

func (uc *Usecase) DailyBatch(ctx context.Context, names []string) ([]Movie, error) {
	today := Day(uc.now())
	names = cleanNames(names)

	// A previously used name returns its whole stored result set, uncapped.
	for _, name := range names {
		used, err := uc.queries.QueryExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if used {
			movies, err := uc.movies.FindByQuery(ctx, name)
			if err != nil {
				return nil, err
			}
			return cloneMovies(movies), nil
		}
	}

	if cached, ok := uc.caches.Daily(today); ok {
		uc.metrics.CacheLookup(metrics.CacheDaily, metrics.ResultHit)
		return limit(cached, BatchSize), nil
	}

	stored, err := uc.movies.FindByDateFetched(ctx, today)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		uc.metrics.CacheLookup(metrics.CacheDaily, metrics.ResultStore)
		batch := limit(stored, BatchSize)
		uc.caches.SetDaily(today, batch)
		return batch, nil
	}
	uc.metrics.CacheLookup(metrics.CacheDaily, metrics.ResultMiss)

	return uc.fetchDaily(ctx, names, today)
}

// fetchDaily runs the fetch-5 loop. A slug returned by several attempts is kept
// once and counts once toward BatchSize; its Queries are merged.
func (uc *Usecase) fetchDaily(ctx context.Context, names []string, today string) ([]Movie, error) {
	source := names
	if len(source) == 0 {
		source = uc.pool
	}
	query, err := uc.pick(source)
	if err != nil {
		return nil, err
	}

	var (
		collected []Movie
		seen      = make(map[string]int)
		attempts  int
	)
	for attempts < MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++

		posts, err := uc.content.Search(ctx, query)
		uc.metrics.Upstream(metrics.UpstreamNetzkino, err)
		if err != nil {
			uc.logger.Warn("daily fetch attempt failed", "attempt", attempts, "query", query, "error", err)
		} else {
			for _, m := range uc.collect(ctx, posts, query, []string{today}) {
				if i, ok := seen[m.Slug]; ok {
					collected[i].Queries = appendMissing(collected[i].Queries, m.Queries...)
					continue
				}
				seen[m.Slug] = len(collected)
				collected = append(collected, m)
			}
		}

		if len(collected) >= BatchSize || attempts == MaxAttempts {
			break
		}
		if query, err = uc.pick(uc.pool); err != nil {
			return nil, err
		}
		uc.logger.Debug("retrying daily fetch", "attempt", attempts+1, "query", query, "collected", len(collected))
	}
	uc.metrics.ObserveDailyAttempts(attempts)

	if len(collected) < BatchSize {
		uc.logger.Error("daily fetch exhausted", "attempts", attempts, "collected", len(collected), "day", today)
		return nil, ErrInsufficientResults
	}

	if err := uc.persist(ctx, collected, query); err != nil {
		return nil, err
	}
	uc.caches.SetDaily(today, collected)

	uc.logger.Info("daily batch stored", "day", today, "query", query, "attempts", attempts, "movies", len(collected))
	return cloneMovies(collected), nil
}

// collect turns posts into enriched movies, dropping rejected candidates.
func (uc *Usecase) collect(ctx context.Context, posts []RawPost, query string, days []string) []Movie {
	out := make([]Movie, 0, len(posts))
	for _, post := range posts {
		imdbID, err := post.IMDbID()
		if err != nil {
			uc.reject(err)
			continue
		}

		poster := uc.enricher.Enrich(ctx, imdbID)
		if poster.Status == PosterTransportFailure {
			uc.metrics.Upstream(metrics.UpstreamTMDB, errors.New(poster.Detail))
		} else {
			uc.metrics.Upstream(metrics.UpstreamTMDB, nil)
		}

		m, err := Normalize(post, query, days, poster.URL)
		if err != nil {
			uc.reject(err)
			continue
		}
		out = append(out, m)
	}
	return out
}

func (uc *Usecase) reject(err error) {
	var r *Rejection
	if !errors.As(err, &r) {
		uc.logger.Warn("candidate dropped", "error", err)
		return
	}
	uc.metrics.Rejected(r.Reason)
	uc.logger.Debug("candidate rejected", "slug", r.Slug, "reason", r.Reason)
}

func (uc *Usecase) persist(ctx context.Context, movies []Movie, query string) error {
	if err := uc.movies.SaveAll(ctx, movies); err != nil {
		return fmt.Errorf("save movies for %q: %w", query, err)
	}
	if err := uc.queries.SaveQuery(ctx, query); err != nil {
		return fmt.Errorf("save query %q: %w", query, err)
	}
	return nil
}

func (uc *Usecase) pick(pool []string) (string, error) {
	i, err := PickUniform(pool, uc.rng)
	if err != nil {
		return "", err
	}
	return queryKey(pool[i]), nil
}

func (uc *Usecase) ListMovies(ctx context.Context) ([]Movie, error) {
	return uc.movies.AllMovies(ctx)
}

func (uc *Usecase) GetMovie(ctx context.Context, slug string) (Movie, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Movie{}, ErrInvalidSlug
	}
	return uc.movies.FindBySlug(ctx, slug)
}

func (uc *Usecase) CreateMovie(ctx context.Context, m Movie) (Movie, error) {
	m = prepare(m)
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}
	if err := uc.movies.CreateMovie(ctx, m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (uc *Usecase) UpdateMovie(ctx context.Context, slug string, m Movie) (Movie, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Movie{}, ErrInvalidSlug
	}
	m.Slug = slug
	m = prepare(m)
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}
	if err := uc.movies.UpdateMovie(ctx, m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (uc *Usecase) DeleteMovie(ctx context.Context, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ErrInvalidSlug
	}
	return uc.movies.DeleteMovie(ctx, slug)
}

func prepare(m Movie) Movie {
	m.Slug = strings.TrimSpace(m.Slug)
	m.Title = strings.TrimSpace(m.Title)
	if m.ID == "" {
		m.ID = m.Slug
	}
	if m.Queries == nil {
		m.Queries = []string{}
	}
	if m.DateFetched == nil {
		m.DateFetched = []string{}
	}
	return m
}

// cleanNames keys names like search queries so both entry points share recorded queries.
func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = queryKey(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// appendMissing appends values not yet present in dst, preserving order.
func appendMissing(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// MergeBySlug collapses movies sharing a slug, keeping the last write for
// scalar fields and the union of Queries and DateFetched.
func MergeBySlug(movies []Movie) []Movie {
	idx := make(map[string]int, len(movies))
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		i, ok := idx[m.Slug]
		if !ok {
			idx[m.Slug] = len(out)
			out = append(out, m)
			continue
		}
		prev := out[i]
		m.Queries = appendMissing(append([]string{}, prev.Queries...), m.Queries...)
		m.DateFetched = appendMissing(append([]string{}, prev.DateFetched...), m.DateFetched...)
		out[i] = m
	}
	return out
}
