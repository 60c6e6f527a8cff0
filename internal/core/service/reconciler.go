package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
)

// Reconciler synchronizes the users collection with the externally
// configured privileged identities and flags sessions minted under rotated
// credentials. It runs once per request, before any handler.
type Reconciler struct {
	users ports.UserRepository
	creds ports.CredentialSource
	log   zerolog.Logger
}

func NewReconciler(users ports.UserRepository, creds ports.CredentialSource, log zerolog.Logger) *Reconciler {
	return &Reconciler{users: users, creds: creds, log: log}
}

// EnsureAccounts inserts a user row for each configured privileged identity
// that has none yet, hashing the current password. Rotating a credential in
// the environment therefore provisions its row on the next request, no
// migration needed. Concurrent first requests may race; the unique username
// index turns the loser's insert into a no-op.
func (r *Reconciler) EnsureAccounts(ctx context.Context) error {
	for _, role := range []string{domain.RoleAdmin, domain.RoleModerator} {
		c := r.creds.Current(role)
		if c.Username == "" {
			continue
		}

		_, err := r.users.FindByUsername(ctx, c.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("reconcile %s: %w", role, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", role, err)
		}
		user := &domain.User{
			Username:     c.Username,
			PasswordHash: string(hash),
			Role:         role,
			CreatedAt:    time.Now().UTC(),
		}
		if _, err := r.users.Insert(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("reconcile %s: %w", role, err)
		}
		r.log.Info().Str("role", role).Str("username", c.Username).Msg("provisioned privileged account")
	}
	return nil
}

// Stale reports whether a privileged principal was minted under a username
// that no longer matches current configuration. Such sessions must be
// cleared so old credentials cannot retain elevated privilege.
func (r *Reconciler) Stale(p *domain.Principal) bool {
	if p == nil || !p.Privileged() {
		return false
	}
	return p.Username != r.creds.Current(p.Role).Username
}
