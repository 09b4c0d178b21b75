package postgres

import (
	"context"
	"errors"
	"kino/user"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UserModel represents the database model for users
type UserModel struct {
	ID        string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username  string         `gorm:"not null;unique"`
	Email     string         `gorm:"not null"`
	Name      string         `gorm:"not null"`
	Role      string         `gorm:"not null;default:user"`
	Favorites pq.StringArray `gorm:"type:text[];not null"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// UserRepository implements user.Repository interface
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts u and returns it with its generated id.
func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	model := toUserModel(u)
	err := r.db.WithContext(ctx).Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.User{}, user.ErrUserExists
	}
	if err != nil {
		return user.User{}, err
	}
	return model.toUser(), nil
}

func (r *UserRepository) AllUsers(ctx context.Context) ([]user.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("created_at, username").Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = model.toUser()
	}
	return users, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return model.toUser(), nil
}

// AddFavorite appends slug in place; a slug already stored leaves the row untouched.
func (r *UserRepository) AddFavorite(ctx context.Context, username, slug string) (user.User, error) {
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("username = ? AND NOT (favorites @> ARRAY[?]::text[])", username, slug).
		Update("favorites", gorm.Expr("array_append(favorites, ?)", slug)).Error
	if err != nil {
		return user.User{}, err
	}
	return r.GetByUsername(ctx, username)
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username, slug string) (user.User, error) {
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("username = ?", username).
		Update("favorites", gorm.Expr("array_remove(favorites, ?)", slug)).Error
	if err != nil {
		return user.User{}, err
	}
	return r.GetByUsername(ctx, username)
}

func toUserModel(u user.User) UserModel {
	return UserModel{
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Favorites: stringArray(u.Favorites),
	}
}

func (model UserModel) toUser() user.User {
	return user.User{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		Name:      model.Name,
		Role:      user.Role(model.Role),
		Favorites: stringSlice(model.Favorites),
		CreatedAt: model.CreatedAt,
	}
}
