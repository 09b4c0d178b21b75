package dynamodb_test

import (
	"context"
	"kino/dynamodb"
	"kino/user"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const usersTable = "users"

func storedUser(t *testing.T, username string, createdAt int64, favorites []string) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"username":  username,
		"id":        "7f3c1c1e-2f4b-4a55-9d0c-0c7e8b7c2a11",
		"email":     username,
		"role":      "user",
		"favorites": favorites,
		"createdAt": createdAt,
	})
	require.NoError(t, err)
	return av
}

func getsUser(username string) interface{} {
	return mock.MatchedBy(func(in *awsdynamodb.GetItemInput) bool {
		key, ok := in.Key["username"].(*types.AttributeValueMemberS)
		return ok && key.Value == username && *in.TableName == usersTable
	})
}

func TestUserRepository_CreateUser(t *testing.T) {
	t.Run("should put new user with generated id", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewUserRepository(api, usersTable)
		var saved *awsdynamodb.PutItemInput
		api.On("PutItem", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*awsdynamodb.PutItemInput) }).
			Return(&awsdynamodb.PutItemOutput{}, nil).Once()

		created, err := repo.CreateUser(context.Background(), user.User{Username: "anna@kino.de", Email: "anna@kino.de", Role: user.RoleUser})

		require.NoError(t, err)
		_, err = uuid.Parse(created.ID)
		assert.NoError(t, err)
		assert.Equal(t, []string{}, created.Favorites)
		require.NotNil(t, saved)
		assert.Contains(t, *saved.ConditionExpression, "attribute_not_exists")
		item := putItem(t, saved)
		assert.Equal(t, "anna@kino.de", item["username"])
		assert.Equal(t, created.ID, item["id"])
	})

	t.Run("should map failed condition to conflict", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewUserRepository(api, usersTable)
		api.On("PutItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{}).Once()

		_, err := repo.CreateUser(context.Background(), user.User{Username: "anna@kino.de"})

		assert.Equal(t, user.ErrUserExists, err)
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	api := new(MockAPI)
	repo := dynamodb.NewUserRepository(api, usersTable)
	api.On("GetItem", mock.Anything, getsUser("anna@kino.de")).
		Return(&awsdynamodb.GetItemOutput{Item: storedUser(t, "anna@kino.de", 1, []string{"lola-rennt"})}, nil).Once()
	api.On("GetItem", mock.Anything, getsUser("ben@kino.de")).
		Return(&awsdynamodb.GetItemOutput{}, nil).Once()

	u, err := repo.GetByUsername(context.Background(), "anna@kino.de")
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.Equal(t, []string{"lola-rennt"}, u.Favorites)

	_, err = repo.GetByUsername(context.Background(), "ben@kino.de")
	assert.Equal(t, user.ErrUserNotFound, err)
}

func TestUserRepository_Favorites(t *testing.T) {
	t.Run("should append new favorite", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewUserRepository(api, usersTable)
		api.On("GetItem", mock.Anything, getsUser("anna@kino.de")).
			Return(&awsdynamodb.GetItemOutput{Item: storedUser(t, "anna@kino.de", 1, []string{"lola-rennt"})}, nil).Once()
		var saved *awsdynamodb.PutItemInput
		api.On("PutItem", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*awsdynamodb.PutItemInput) }).
			Return(&awsdynamodb.PutItemOutput{}, nil).Once()

		u, err := repo.AddFavorite(context.Background(), "anna@kino.de", "das-boot")

		require.NoError(t, err)
		assert.Equal(t, []string{"lola-rennt", "das-boot"}, u.Favorites)
		require.NotNil(t, saved)
		assert.Contains(t, *saved.ConditionExpression, "attribute_exists")
		assert.Equal(t, []interface{}{"lola-rennt", "das-boot"}, putItem(t, saved)["favorites"])
	})

	t.Run("should not write a favorite twice", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewUserRepository(api, usersTable)
		api.On("GetItem", mock.Anything, getsUser("anna@kino.de")).
			Return(&awsdynamodb.GetItemOutput{Item: storedUser(t, "anna@kino.de", 1, []string{"lola-rennt"})}, nil).Once()

		u, err := repo.AddFavorite(context.Background(), "anna@kino.de", "lola-rennt")

		require.NoError(t, err)
		assert.Equal(t, []string{"lola-rennt"}, u.Favorites)
		api.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
	})

	t.Run("should remove favorite", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewUserRepository(api, usersTable)
		api.On("GetItem", mock.Anything, getsUser("anna@kino.de")).
			Return(&awsdynamodb.GetItemOutput{Item: storedUser(t, "anna@kino.de", 1, []string{"lola-rennt", "das-boot"})}, nil).Once()
		api.On("PutItem", mock.Anything, mock.Anything).Return(&awsdynamodb.PutItemOutput{}, nil).Once()

		u, err := repo.RemoveFavorite(context.Background(), "anna@kino.de", "lola-rennt")

		require.NoError(t, err)
		assert.Equal(t, []string{"das-boot"}, u.Favorites)
		api.AssertExpectations(t)
	})

	t.Run("should return not found for unknown user", func(t *testing.T) {
		api := new(MockAPI)
		repo := dynamodb.NewUserRepository(api, usersTable)
		api.On("GetItem", mock.Anything, getsUser("ben@kino.de")).Return(&awsdynamodb.GetItemOutput{}, nil).Once()

		_, err := repo.AddFavorite(context.Background(), "ben@kino.de", "lola-rennt")

		assert.Equal(t, user.ErrUserNotFound, err)
	})
}

func TestUserRepository_AllUsers(t *testing.T) {
	api := new(MockAPI)
	repo := dynamodb.NewUserRepository(api, usersTable)
	api.On("Scan", mock.Anything, mock.Anything).Return(&awsdynamodb.ScanOutput{Items: []map[string]types.AttributeValue{
		storedUser(t, "ben@kino.de", 20, nil),
		storedUser(t, "anna@kino.de", 10, []string{"lola-rennt"}),
	}}, nil).Once()

	users, err := repo.AllUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "anna@kino.de", users[0].Username)
	assert.Equal(t, []string{}, users[1].Favorites)
}
