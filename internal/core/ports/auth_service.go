package ports

import (
	"context"

	"github.com/ruetfest/festcrm/internal/core/domain"
)

// AuthService authenticates callers and mints bearer tokens for non-browser
// clients. Login failures collapse into domain.ErrInvalidCredentials.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Principal, error)
	IssueToken(p *domain.Principal) (string, error)
	ParseToken(token string) (*domain.Principal, error)
}
