package user

import (
	"kino/errs"
	"net/mail"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidUsername = errs.Errorf(errs.EINVALID, "user: invalid username")
	ErrInvalidEmail    = errs.Errorf(errs.EINVALID, "user: invalid email")
	ErrInvalidRole     = errs.Errorf(errs.EINVALID, "user: invalid role")
	ErrInvalidSlug     = errs.Errorf(errs.EINVALID, "user: invalid movie slug")
	ErrUserNotFound    = errs.Errorf(errs.ENOTFOUND, "user not found")
	ErrUserExists      = errs.Errorf(errs.ECONFLICT, "user already exists")
	ErrForbidden       = errs.Errorf(errs.EFORBIDDEN, "user: watchlist belongs to another user")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a signed-in viewer. Username is the lower-cased login email and
// Favorites holds the slugs on their watchlist in insertion order.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return ErrInvalidRole
	}
	return nil
}

func (u User) InWatchlist(slug string) bool {
	return slices.Contains(u.Favorites, slug)
}

// Username derives the username of an email address.
func Username(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CanAccess allows the owner of a watchlist and admins.
func CanAccess(subject string, role Role, username string) error {
	if role == RoleAdmin {
		return nil
	}
	if subject == "" || Username(subject) != Username(username) {
		return ErrForbidden
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" || strings.ContainsAny(slug, " /\t\n") {
		return ErrInvalidSlug
	}
	return nil
}
