package user

import (
	"context"
	"kino/movie"
	"strings"
)

type Service interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetActiveUser(ctx context.Context, username string) (User, error)
	InWatchlist(ctx context.Context, username, slug string) (bool, error)
	AddToWatchlist(ctx context.Context, username, slug string) (User, error)
	RemoveFromWatchlist(ctx context.Context, username, slug string) (User, error)
}

type Repository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	AllUsers(ctx context.Context) ([]User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// AddFavorite appends slug unless it is already present.
	AddFavorite(ctx context.Context, username, slug string) (User, error)
	RemoveFavorite(ctx context.Context, username, slug string) (User, error)
}

// MovieLookup resolves a slug against the movie store.
type MovieLookup interface {
	GetMovie(ctx context.Context, slug string) (movie.Movie, error)
}

type Usecase struct {
	r      Repository
	movies MovieLookup
}

// NewUsecase builds the watchlist service. A nil movies lookup skips the
// existence check on add.
func NewUsecase(r Repository, movies MovieLookup) *Usecase {
	return &Usecase{
		r:      r,
		movies: movies,
	}
}

func (uc *Usecase) ListUsers(ctx context.Context) ([]User, error) {
	return uc.r.AllUsers(ctx)
}

func (uc *Usecase) GetActiveUser(ctx context.Context, username string) (User, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return User{}, err
	}
	return uc.r.GetByUsername(ctx, username)
}

func (uc *Usecase) InWatchlist(ctx context.Context, username, slug string) (bool, error) {
	slug = strings.TrimSpace(slug)
	if err := validateSlug(slug); err != nil {
		return false, err
	}
	u, err := uc.GetActiveUser(ctx, username)
	if err != nil {
		return false, err
	}
	return u.InWatchlist(slug), nil
}

func (uc *Usecase) AddToWatchlist(ctx context.Context, username, slug string) (User, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return User{}, err
	}
	slug = strings.TrimSpace(slug)
	if err := validateSlug(slug); err != nil {
		return User{}, err
	}
	if uc.movies != nil {
		if _, err := uc.movies.GetMovie(ctx, slug); err != nil {
			return User{}, err
		}
	}
	return uc.r.AddFavorite(ctx, username, slug)
}

// RemoveFromWatchlist succeeds when slug is not on the watchlist.
func (uc *Usecase) RemoveFromWatchlist(ctx context.Context, username, slug string) (User, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return User{}, err
	}
	slug = strings.TrimSpace(slug)
	if err := validateSlug(slug); err != nil {
		return User{}, err
	}
	return uc.r.RemoveFavorite(ctx, username, slug)
}

func cleanUsername(username string) (string, error) {
	username = Username(username)
	if username == "" {
		return "", ErrInvalidUsername
	}
	return username, nil
}
