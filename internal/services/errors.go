package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
)

var (
	ErrInvalidUserID    = errors.New("user id must not be empty")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	// ErrDirectoryLookupFailed marks a failed decoration lookup. It never aborts a mutation.
	ErrDirectoryLookupFailed = errors.New("user directory lookup failed")
	// ErrBackendUnavailable is returned for storage failures. The core never retries them.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// translate maps repository errors onto the domain error kinds
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrAlreadyExists):
		return ErrAlreadyFollowing
	case errors.Is(err, repositories.ErrSelfReference):
		return ErrSelfFollow
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
