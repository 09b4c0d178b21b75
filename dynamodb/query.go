package dynamodb

import (
	"context"
	"fmt"
	"kino/movie"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// QueryRepository stores used search terms in a table keyed by query.
type QueryRepository struct {
	client API
	table  string
	now    func() time.Time
}

type queryItem struct {
	Query     string `dynamodbav:"query"`
	CreatedAt int64  `dynamodbav:"createdAt"`
}

func NewQueryRepository(client API, table string) *QueryRepository {
	return &QueryRepository{
		client: client,
		table:  table,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// SaveQuery records query once; later saves keep the first record.
func (r *QueryRepository) SaveQuery(ctx context.Context, query string) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(queryItem{Query: query, CreatedAt: r.now().UnixNano()})
	if err != nil {
		return fmt.Errorf("dynamodb: marshal query: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#q)"),
		ExpressionAttributeNames: map[string]string{
			"#q": "query",
		},
	})
	if err != nil && !isConditionFailed(err) {
		return fmt.Errorf("dynamodb: put query: %w", err)
	}
	return nil
}

func (r *QueryRepository) QueryExists(ctx context.Context, query string) (bool, error) {
	if err := validateTable(r.table); err != nil {
		return false, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key: map[string]types.AttributeValue{
			"query": &types.AttributeValueMemberS{Value: query},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb: get query: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (r *QueryRepository) AllQueries(ctx context.Context) ([]movie.Query, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	var items []queryItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: &r.table,
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan queries: %w", err)
		}

		var page []queryItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal queries: %w", err)
		}
		items = append(items, page...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt < items[j].CreatedAt
	})

	queries := make([]movie.Query, len(items))
	for i, item := range items {
		queries[i] = movie.Query{Query: item.Query}
	}
	return queries, nil
}
