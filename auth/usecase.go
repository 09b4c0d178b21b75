package auth

import (
	"context"
	"errors"
	"kino/errs"
	kinojwt "kino/pkg/jwt"
	"kino/user"
	"log/slog"
	"strings"
)

var (
	ErrInvalidRefreshToken = errs.Errorf(errs.EUNAUTHORIZED, "invalid refresh token")
	ErrInvalidOAuthUser    = errs.Errorf(errs.EUNAUTHORIZED, "invalid oauth user")
	ErrOAuthNotConfigured  = errs.Errorf(errs.ENOTIMPLEMENTED, "oauth provider not configured")
	ErrMissingState        = errs.Errorf(errs.EINVALID, "auth: missing oauth state")
	ErrMissingCode         = errs.Errorf(errs.EINVALID, "auth: missing authorization code")
)

type Service interface {
	GoogleAuthURL(state string) (string, error)
	LoginWithGoogle(ctx context.Context, code string) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
}

type TokenProvider interface {
	GenerateAccessToken(subject, role string) (string, error)
	GenerateRefreshToken(subject, role string) (string, error)
	ParseRefreshToken(refreshToken string) (*kinojwt.Claims, error)
}

type OAuthUser struct {
	Email         string
	Name          string
	EmailVerified bool
}

type GoogleOAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (OAuthUser, error)
}

// Session is the token pair handed out on login together with the signed-in user.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	User         user.User `json:"user"`
}

type Option func(uc *Usecase)

// WithAdminEmails grants the admin role to accounts first created for these addresses.
func WithAdminEmails(emails []string) Option {
	return func(uc *Usecase) {
		for _, e := range emails {
			if e = user.Username(e); e != "" {
				uc.admins[e] = struct{}{}
			}
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(uc *Usecase) { uc.logger = logger }
}

type Usecase struct {
	userRepo       UserRepository
	tokenProvider  TokenProvider
	googleProvider GoogleOAuthProvider
	admins         map[string]struct{}
	logger         *slog.Logger
}

// NewUsecase builds the login service. googleProvider may be nil when OAuth is not configured.
func NewUsecase(
	userRepo UserRepository,
	tokenProvider TokenProvider,
	googleProvider GoogleOAuthProvider,
	opts ...Option,
) *Usecase {
	uc := &Usecase{
		userRepo:       userRepo,
		tokenProvider:  tokenProvider,
		googleProvider: googleProvider,
		admins:         make(map[string]struct{}),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *Usecase) GoogleAuthURL(state string) (string, error) {
	if uc.googleProvider == nil {
		return "", ErrOAuthNotConfigured
	}
	if strings.TrimSpace(state) == "" {
		return "", ErrMissingState
	}
	return uc.googleProvider.AuthCodeURL(state), nil
}

// LoginWithGoogle exchanges code for the Google profile and signs the user in,
// creating the account on first login.
func (uc *Usecase) LoginWithGoogle(ctx context.Context, code string) (Session, error) {
	if uc.googleProvider == nil {
		return Session{}, ErrOAuthNotConfigured
	}
	if strings.TrimSpace(code) == "" {
		return Session{}, ErrMissingCode
	}

	oauthUser, err := uc.googleProvider.Exchange(ctx, code)
	if err != nil {
		return Session{}, err
	}
	if !oauthUser.EmailVerified || strings.TrimSpace(oauthUser.Email) == "" {
		return Session{}, ErrInvalidOAuthUser
	}

	username := user.Username(oauthUser.Email)
	u, err := uc.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, user.ErrUserNotFound) {
		u, err = uc.createUser(ctx, username, oauthUser)
	}
	if err != nil {
		return Session{}, err
	}

	return uc.session(u)
}

func (uc *Usecase) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := uc.tokenProvider.ParseRefreshToken(refreshToken)
	if err != nil {
		return Session{}, ErrInvalidRefreshToken
	}

	// the role is re-read so a demotion takes effect on the next refresh
	u, err := uc.userRepo.GetByUsername(ctx, claims.Subject)
	if errors.Is(err, user.ErrUserNotFound) {
		return Session{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return Session{}, err
	}

	return uc.session(u)
}

func (uc *Usecase) createUser(ctx context.Context, username string, oauthUser OAuthUser) (user.User, error) {
	u := user.User{
		Username:  username,
		Email:     strings.TrimSpace(oauthUser.Email),
		Name:      strings.TrimSpace(oauthUser.Name),
		Role:      user.RoleUser,
		Favorites: []string{},
	}
	if _, ok := uc.admins[username]; ok {
		u.Role = user.RoleAdmin
	}
	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	created, err := uc.userRepo.CreateUser(ctx, u)
	if errors.Is(err, user.ErrUserExists) {
		// a concurrent first login won the insert
		return uc.userRepo.GetByUsername(ctx, username)
	}
	if err != nil {
		return user.User{}, err
	}
	uc.logger.Info("user created", "username", username, "role", created.Role)
	return created, nil
}

func (uc *Usecase) session(u user.User) (Session, error) {
	accessToken, err := uc.tokenProvider.GenerateAccessToken(u.Username, string(u.Role))
	if err != nil {
		return Session{}, err
	}

	refreshToken, err := uc.tokenProvider.GenerateRefreshToken(u.Username, string(u.Role))
	if err != nil {
		return Session{}, err
	}

	return Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u,
	}, nil
}
