package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableAPI is the subset of the DynamoDB client used to provision tables.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Tables names the tables of the service.
type Tables struct {
	Movies  string
	Queries string
	Users   string
}

// EnsureTables creates the movies, queries and users tables when they are missing.
// All use on-demand billing and a single string hash key.
func EnsureTables(ctx context.Context, client TableAPI, names Tables) error {
	tables := []struct {
		name string
		key  string
	}{
		{name: names.Movies, key: "slug"},
		{name: names.Queries, key: "query"},
		{name: names.Users, key: "username"},
	}
	for _, t := range tables {
		if err := validateTable(t.name); err != nil {
			return err
		}
		if err := ensureTable(ctx, client, t.name, t.key); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(ctx context.Context, client TableAPI, table, key string) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("dynamodb: describe table %s: %w", table, err)
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(key), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(key), KeyType: types.KeyTypeHash},
		},
	})
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return fmt.Errorf("dynamodb: create table %s: %w", table, err)
	}
	return nil
}
