package ports

import (
	"context"

	"github.com/ruetfest/festcrm/internal/core/domain"
)

// UserRepository persists accounts. FindByUsername returns
// domain.ErrNotFound when no row matches; Insert returns domain.ErrDuplicate
// when the username is already taken.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (string, error)
}
