package dynamodb

import (
	"context"
	"fmt"
	"kino/user"
	"slices"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// UserRepository stores users in a table keyed by username.
type UserRepository struct {
	client API
	table  string
	now    func() time.Time
	newID  func() string
}

type userItem struct {
	Username  string   `dynamodbav:"username"`
	ID        string   `dynamodbav:"id"`
	Email     string   `dynamodbav:"email"`
	Name      string   `dynamodbav:"name"`
	Role      string   `dynamodbav:"role"`
	Favorites []string `dynamodbav:"favorites"`
	CreatedAt int64    `dynamodbav:"createdAt"`
}

func NewUserRepository(client API, table string) *UserRepository {
	return &UserRepository{
		client: client,
		table:  table,
		now: func() time.Time {
			return time.Now().UTC()
		},
		newID: uuid.NewString,
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if err := validateTable(r.table); err != nil {
		return user.User{}, err
	}

	item := toUserItem(u)
	item.ID = r.newID()
	item.CreatedAt = r.now().UnixNano()
	err := r.put(ctx, item, expression.AttributeNotExists(expression.Name("username")))
	if isConditionFailed(err) {
		return user.User{}, user.ErrUserExists
	}
	if err != nil {
		return user.User{}, err
	}
	return item.toUser(), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if err := validateTable(r.table); err != nil {
		return user.User{}, err
	}

	item, found, err := r.get(ctx, username)
	if err != nil {
		return user.User{}, err
	}
	if !found {
		return user.User{}, user.ErrUserNotFound
	}
	return item.toUser(), nil
}

// AllUsers scans the table and orders users by creation time.
func (r *UserRepository) AllUsers(ctx context.Context) ([]user.User, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	var items []userItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: &r.table,
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan users: %w", err)
		}

		var page []userItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal users: %w", err)
		}
		items = append(items, page...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].Username < items[j].Username
	})

	users := make([]user.User, len(items))
	for i, item := range items {
		users[i] = item.toUser()
	}
	return users, nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, username, slug string) (user.User, error) {
	return r.updateFavorites(ctx, username, func(favorites []string) ([]string, bool) {
		if slices.Contains(favorites, slug) {
			return favorites, false
		}
		return append(favorites, slug), true
	})
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username, slug string) (user.User, error) {
	return r.updateFavorites(ctx, username, func(favorites []string) ([]string, bool) {
		i := slices.Index(favorites, slug)
		if i < 0 {
			return favorites, false
		}
		return slices.Delete(favorites, i, i+1), true
	})
}

// updateFavorites rewrites the stored favorites with change. Unchanged lists are not written.
func (r *UserRepository) updateFavorites(ctx context.Context, username string, change func([]string) ([]string, bool)) (user.User, error) {
	if err := validateTable(r.table); err != nil {
		return user.User{}, err
	}

	item, found, err := r.get(ctx, username)
	if err != nil {
		return user.User{}, err
	}
	if !found {
		return user.User{}, user.ErrUserNotFound
	}

	favorites, changed := change(nonNil(item.Favorites))
	item.Favorites = favorites
	if !changed {
		return item.toUser(), nil
	}

	err = r.put(ctx, item, expression.AttributeExists(expression.Name("username")))
	if isConditionFailed(err) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return item.toUser(), nil
}

func (r *UserRepository) get(ctx context.Context, username string) (userItem, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return userItem{}, false, fmt.Errorf("dynamodb: get user: %w", err)
	}
	if len(out.Item) == 0 {
		return userItem{}, false, nil
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return userItem{}, false, fmt.Errorf("dynamodb: unmarshal user: %w", err)
	}
	return item, true, nil
}

func (r *UserRepository) put(ctx context.Context, item userItem, condition expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal user: %w", err)
	}
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return fmt.Errorf("dynamodb: build condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                &r.table,
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put user: %w", err)
	}
	return nil
}

func toUserItem(u user.User) userItem {
	return userItem{
		Username:  u.Username,
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Favorites: nonNil(u.Favorites),
	}
}

func (item userItem) toUser() user.User {
	return user.User{
		ID:        item.ID,
		Username:  item.Username,
		Email:     item.Email,
		Name:      item.Name,
		Role:      user.Role(item.Role),
		Favorites: nonNil(item.Favorites),
		CreatedAt: time.Unix(0, item.CreatedAt).UTC(),
	}
}
