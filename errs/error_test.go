package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"kino/errs"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := errs.Errorf(errs.EINVALID, "movie: search query cannot be empty")

	assert.Equal(t, "application error: code=invalid message=movie: search query cannot be empty", err.Error())
}

func TestErrorf(t *testing.T) {
	err := errs.Errorf(errs.EUNAVAILABLE, "failed to fetch %d movies after %d attempts", 5, 10)

	assert.Equal(t, errs.EUNAVAILABLE, err.Code)
	assert.Equal(t, "failed to fetch 5 movies after 10 attempts", err.Message)
}

func TestErrorCode(t *testing.T) {
	unavailable := errs.Errorf(errs.EUNAVAILABLE, "content service unavailable")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "conflict", err: errs.Errorf(errs.ECONFLICT, "movie already exists"), want: errs.ECONFLICT},
		{name: "invalid", err: errs.Errorf(errs.EINVALID, "movie: invalid slug"), want: errs.EINVALID},
		{name: "not found", err: errs.Errorf(errs.ENOTFOUND, "movie not found"), want: errs.ENOTFOUND},
		{name: "unauthorized", err: errs.Errorf(errs.EUNAUTHORIZED, "missing or invalid access token"), want: errs.EUNAUTHORIZED},
		{name: "forbidden", err: errs.Errorf(errs.EFORBIDDEN, "user: watchlist belongs to another user"), want: errs.EFORBIDDEN},
		{name: "not implemented", err: errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured"), want: errs.ENOTIMPLEMENTED},
		{name: "unavailable", err: unavailable, want: errs.EUNAVAILABLE},
		{name: "wrapped with cause", err: fmt.Errorf("%w: dial tcp: i/o timeout", unavailable), want: errs.EUNAVAILABLE},
		{name: "joined", err: errors.Join(errors.New("first"), unavailable), want: errs.EUNAVAILABLE},
		{name: "plain error", err: errors.New("connection refused"), want: errs.EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errs.ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "application error", err: errs.Errorf(errs.ENOTFOUND, "movie not found"), want: "movie not found"},
		{name: "wrapped application error", err: fmt.Errorf("get movie: %w", errs.Errorf(errs.ENOTFOUND, "movie not found")), want: "movie not found"},
		{name: "plain error is hidden", err: errors.New("pq: password authentication failed"), want: "Internal error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errs.ErrorMessage(tt.err))
		})
	}
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "conflict", errs.ECONFLICT)
	assert.Equal(t, "internal", errs.EINTERNAL)
	assert.Equal(t, "forbidden", errs.EFORBIDDEN)
	assert.Equal(t, "invalid", errs.EINVALID)
	assert.Equal(t, "not_found", errs.ENOTFOUND)
	assert.Equal(t, "not_implemented", errs.ENOTIMPLEMENTED)
	assert.Equal(t, "unauthorized", errs.EUNAUTHORIZED)
	assert.Equal(t, "unavailable", errs.EUNAVAILABLE)
}
