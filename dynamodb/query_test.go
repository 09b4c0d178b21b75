package dynamodb_test

import (
	"context"
	"kino/dynamodb"
	"kino/movie"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryRepository(t *testing.T) {
	t.Run("treats an existing query as saved", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewQueryRepository(api, "queries")
		api.On("PutItem", mock.Anything, mock.MatchedBy(func(in *awsdynamodb.PutItemInput) bool {
			return in.ConditionExpression != nil
		})).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		err := repo.SaveQuery(context.Background(), "comedy")

		assert.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("reports existence from get item", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewQueryRepository(api, "queries")
		item, err := attributevalue.MarshalMap(map[string]interface{}{"query": "comedy"})
		require.NoError(t, err)
		api.On("GetItem", mock.Anything, mock.Anything).Return(&awsdynamodb.GetItemOutput{Item: item}, nil).Once()
		api.On("GetItem", mock.Anything, mock.Anything).Return(&awsdynamodb.GetItemOutput{}, nil).Once()

		used, err := repo.QueryExists(context.Background(), "comedy")
		require.NoError(t, err)
		unused, err := repo.QueryExists(context.Background(), "drama")
		require.NoError(t, err)

		assert.True(t, used)
		assert.False(t, unused)
	})

	t.Run("lists queries in recording order", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewQueryRepository(api, "queries")
		second, err := attributevalue.MarshalMap(map[string]interface{}{"query": "liam", "createdAt": 2})
		require.NoError(t, err)
		first, err := attributevalue.MarshalMap(map[string]interface{}{"query": "comedy", "createdAt": 1})
		require.NoError(t, err)
		api.On("Scan", mock.Anything, mock.Anything).
			Return(&awsdynamodb.ScanOutput{Items: []map[string]types.AttributeValue{second, first}}, nil).Once()

		queries, err := repo.AllQueries(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []movie.Query{{Query: "comedy"}, {Query: "liam"}}, queries)
	})
}
