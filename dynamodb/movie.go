package dynamodb

import (
	"context"
	"fmt"
	"kino/movie"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MovieRepository stores movies in a table keyed by slug.
type MovieRepository struct {
	client API
	table  string
	now    func() time.Time
}

type movieItem struct {
	Slug              string   `dynamodbav:"slug"`
	ExternalID        int64    `dynamodbav:"externalId"`
	Title             string   `dynamodbav:"title"`
	Year              string   `dynamodbav:"year"`
	Overview          string   `dynamodbav:"overview"`
	Director          string   `dynamodbav:"director"`
	Stars             string   `dynamodbav:"stars"`
	PosterURL         string   `dynamodbav:"posterUrl"`
	PosterURLSmall    string   `dynamodbav:"posterUrlSmall"`
	PosterURLExternal string   `dynamodbav:"posterUrlExternal"`
	Queries           []string `dynamodbav:"queries"`
	DateFetched       []string `dynamodbav:"dateFetched"`
	CreatedAt         int64    `dynamodbav:"createdAt"`
}

func NewMovieRepository(client API, table string) *MovieRepository {
	return &MovieRepository{
		client: client,
		table:  table,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// SaveAll upserts movies one item at a time, merging queries and fetch days
// with the stored item.
func (r *MovieRepository) SaveAll(ctx context.Context, movies []movie.Movie) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	for _, m := range movie.MergeBySlug(movies) {
		existing, found, err := r.get(ctx, m.Slug)
		if err != nil {
			return err
		}

		createdAt := r.now().UnixNano()
		if found {
			createdAt = existing.CreatedAt
			m = movie.MergeBySlug([]movie.Movie{existing.toMovie(), m})[0]
		}

		item := toMovieItem(m)
		item.CreatedAt = createdAt
		if err := r.put(ctx, item, nil); err != nil {
			return err
		}
	}
	return nil
}

func (r *MovieRepository) FindBySlug(ctx context.Context, slug string) (movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Movie{}, err
	}

	item, found, err := r.get(ctx, slug)
	if err != nil {
		return movie.Movie{}, err
	}
	if !found {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	return item.toMovie(), nil
}

func (r *MovieRepository) FindByQuery(ctx context.Context, query string) ([]movie.Movie, error) {
	return r.scan(ctx, expression.Contains(expression.Name("queries"), query))
}

func (r *MovieRepository) FindByDateFetched(ctx context.Context, day string) ([]movie.Movie, error) {
	return r.scan(ctx, expression.Contains(expression.Name("dateFetched"), day))
}

func (r *MovieRepository) AllMovies(ctx context.Context) ([]movie.Movie, error) {
	return r.scan(ctx, expression.AttributeExists(expression.Name("slug")))
}

func (r *MovieRepository) CreateMovie(ctx context.Context, m movie.Movie) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	item := toMovieItem(m)
	item.CreatedAt = r.now().UnixNano()
	err := r.put(ctx, item, aws.String("attribute_not_exists(slug)"))
	if isConditionFailed(err) {
		return movie.ErrMovieExists
	}
	return err
}

// UpdateMovie replaces the stored movie, keeping its creation time.
func (r *MovieRepository) UpdateMovie(ctx context.Context, m movie.Movie) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	existing, found, err := r.get(ctx, m.Slug)
	if err != nil {
		return err
	}
	if !found {
		return movie.ErrMovieNotFound
	}

	item := toMovieItem(m)
	item.CreatedAt = existing.CreatedAt
	err = r.put(ctx, item, aws.String("attribute_exists(slug)"))
	if isConditionFailed(err) {
		return movie.ErrMovieNotFound
	}
	return err
}

func (r *MovieRepository) DeleteMovie(ctx context.Context, slug string) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.table,
		Key: map[string]types.AttributeValue{
			"slug": &types.AttributeValueMemberS{Value: slug},
		},
		ConditionExpression: aws.String("attribute_exists(slug)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return movie.ErrMovieNotFound
		}
		return fmt.Errorf("dynamodb: delete movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) get(ctx context.Context, slug string) (movieItem, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key: map[string]types.AttributeValue{
			"slug": &types.AttributeValueMemberS{Value: slug},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return movieItem{}, false, fmt.Errorf("dynamodb: get movie: %w", err)
	}
	if len(out.Item) == 0 {
		return movieItem{}, false, nil
	}

	var item movieItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return movieItem{}, false, fmt.Errorf("dynamodb: unmarshal movie: %w", err)
	}
	return item, true, nil
}

func (r *MovieRepository) put(ctx context.Context, item movieItem, condition *string) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal movie: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                av,
		ConditionExpression: condition,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put movie: %w", err)
	}
	return nil
}

// scan returns the matching movies ordered by creation time.
func (r *MovieRepository) scan(ctx context.Context, filter expression.ConditionBuilder) ([]movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("dynamodb: build filter: %w", err)
	}

	var items []movieItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 &r.table,
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan movies: %w", err)
		}

		var page []movieItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal movies: %w", err)
		}
		items = append(items, page...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].Slug < items[j].Slug
	})

	movies := make([]movie.Movie, len(items))
	for i, item := range items {
		movies[i] = item.toMovie()
	}
	return movies, nil
}

func toMovieItem(m movie.Movie) movieItem {
	return movieItem{
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
		Queries:           nonNil(m.Queries),
		DateFetched:       nonNil(m.DateFetched),
	}
}

func (item movieItem) toMovie() movie.Movie {
	return movie.Movie{
		ID:                item.Slug,
		ExternalID:        item.ExternalID,
		Slug:              item.Slug,
		Title:             item.Title,
		Year:              item.Year,
		Overview:          item.Overview,
		Director:          item.Director,
		Stars:             item.Stars,
		PosterURL:         item.PosterURL,
		PosterURLSmall:    item.PosterURLSmall,
		PosterURLExternal: item.PosterURLExternal,
		Queries:           nonNil(item.Queries),
		DateFetched:       nonNil(item.DateFetched),
	}
}

func nonNil(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
