package postgres

import (
	"context"
	"kino/movie"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryModel is a search term that already populated the movies table.
type QueryModel struct {
	Query     string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (QueryModel) TableName() string {
	return "queries"
}

type QueryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

// SaveQuery records query; saving it twice is a no-op.
func (r *QueryRepository) SaveQuery(ctx context.Context, query string) error {
	model := QueryModel{Query: query}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error
}

func (r *QueryRepository) QueryExists(ctx context.Context, query string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&QueryModel{}).Where("query = ?", query).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *QueryRepository) AllQueries(ctx context.Context) ([]movie.Query, error) {
	var models []QueryModel
	if err := r.db.WithContext(ctx).Order("created_at, query").Find(&models).Error; err != nil {
		return nil, err
	}

	queries := make([]movie.Query, len(models))
	for i, model := range models {
		queries[i] = movie.Query{Query: model.Query}
	}
	return queries, nil
}
