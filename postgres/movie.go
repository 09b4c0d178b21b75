package postgres

import (
	"context"
	"errors"
	"kino/movie"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieModel represents the database model for movies.
// queries and date_fetched are text[] columns with GIN indexes.
type MovieModel struct {
	Slug              string         `gorm:"primaryKey"`
	ExternalID        int64          `gorm:"column:external_id;not null"`
	Title             string         `gorm:"not null"`
	Year              string         `gorm:"not null"`
	Overview          string         `gorm:"not null"`
	Director          string         `gorm:"not null"`
	Stars             string         `gorm:"not null"`
	PosterURL         string         `gorm:"column:poster_url;not null"`
	PosterURLSmall    string         `gorm:"column:poster_url_small;not null"`
	PosterURLExternal string         `gorm:"column:poster_url_external;not null"`
	Queries           pq.StringArray `gorm:"type:text[];not null"`
	DateFetched       pq.StringArray `gorm:"column:date_fetched;type:text[];not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// arrayUnion appends the incoming elements not yet stored, keeping stored order.
func arrayUnion(column string) clause.Expr {
	return gorm.Expr("movies." + column + " || ARRAY(SELECT v FROM unnest(EXCLUDED." + column + ") AS v WHERE NOT v = ANY(movies." + column + "))")
}

var upsertMovies = clause.OnConflict{
	Columns: []clause.Column{{Name: "slug"}},
	DoUpdates: append(
		clause.AssignmentColumns([]string{
			"external_id", "title", "year", "overview", "director", "stars",
			"poster_url", "poster_url_small", "poster_url_external", "updated_at",
		}),
		clause.Assignments(map[string]interface{}{
			"queries":      arrayUnion("queries"),
			"date_fetched": arrayUnion("date_fetched"),
		})...,
	),
}

// MovieRepository implements movie.Repository on PostgreSQL.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// SaveAll upserts movies by slug. Stored queries and fetch days are kept and
// extended, all other columns take the incoming values.
func (r *MovieRepository) SaveAll(ctx context.Context, movies []movie.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	merged := movie.MergeBySlug(movies)
	models := make([]MovieModel, len(merged))
	for i, m := range merged {
		models[i] = toMovieModel(m)
	}
	return r.db.WithContext(ctx).Clauses(upsertMovies).Create(&models).Error
}

func (r *MovieRepository) FindBySlug(ctx context.Context, slug string) (movie.Movie, error) {
	var model MovieModel
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	if err != nil {
		return movie.Movie{}, err
	}
	return model.toMovie(), nil
}

func (r *MovieRepository) FindByQuery(ctx context.Context, query string) ([]movie.Movie, error) {
	return r.find(ctx, "queries @> ARRAY[?]::text[]", query)
}

func (r *MovieRepository) FindByDateFetched(ctx context.Context, day string) ([]movie.Movie, error) {
	return r.find(ctx, "date_fetched @> ARRAY[?]::text[]", day)
}

func (r *MovieRepository) AllMovies(ctx context.Context) ([]movie.Movie, error) {
	return r.find(ctx, "TRUE")
}

func (r *MovieRepository) find(ctx context.Context, where string, args ...interface{}) ([]movie.Movie, error) {
	var models []MovieModel
	err := r.db.WithContext(ctx).
		Where(where, args...).
		Order("created_at, slug").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = model.toMovie()
	}
	return movies, nil
}

func (r *MovieRepository) CreateMovie(ctx context.Context, m movie.Movie) error {
	model := toMovieModel(m)
	err := r.db.WithContext(ctx).Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return movie.ErrMovieExists
	}
	return err
}

// UpdateMovie replaces every column of an existing movie.
func (r *MovieRepository) UpdateMovie(ctx context.Context, m movie.Movie) error {
	model := toMovieModel(m)
	result := r.db.WithContext(ctx).
		Model(&MovieModel{}).
		Where("slug = ?", m.Slug).
		Updates(map[string]interface{}{
			"external_id":         model.ExternalID,
			"title":               model.Title,
			"year":                model.Year,
			"overview":            model.Overview,
			"director":            model.Director,
			"stars":               model.Stars,
			"poster_url":          model.PosterURL,
			"poster_url_small":    model.PosterURLSmall,
			"poster_url_external": model.PosterURLExternal,
			"queries":             model.Queries,
			"date_fetched":        model.DateFetched,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) DeleteMovie(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&MovieModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func toMovieModel(m movie.Movie) MovieModel {
	return MovieModel{
		Slug:              m.Slug,
		ExternalID:        m.ExternalID,
		Title:             m.Title,
		Year:              m.Year,
		Overview:          m.Overview,
		Director:          m.Director,
		Stars:             m.Stars,
		PosterURL:         m.PosterURL,
		PosterURLSmall:    m.PosterURLSmall,
		PosterURLExternal: m.PosterURLExternal,
		Queries:           stringArray(m.Queries),
		DateFetched:       stringArray(m.DateFetched),
	}
}

func (model MovieModel) toMovie() movie.Movie {
	return movie.Movie{
		ID:                model.Slug,
		ExternalID:        model.ExternalID,
		Slug:              model.Slug,
		Title:             model.Title,
		Year:              model.Year,
		Overview:          model.Overview,
		Director:          model.Director,
		Stars:             model.Stars,
		PosterURL:         model.PosterURL,
		PosterURLSmall:    model.PosterURLSmall,
		PosterURLExternal: model.PosterURLExternal,
		Queries:           stringSlice(model.Queries),
		DateFetched:       stringSlice(model.DateFetched),
	}
}

// stringArray never returns nil so the NOT NULL array columns get '{}'.
func stringArray(values []string) pq.StringArray {
	out := make(pq.StringArray, len(values))
	copy(out, values)
	return out
}

func stringSlice(values pq.StringArray) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
