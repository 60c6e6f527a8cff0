package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
)

// Throttle limits repeated failed logins per username. A nil Throttle
// disables the check.
type Throttle interface {
	TooMany(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
}

// AuthService implements login against the privileged credential source
// first, then the persisted user store.
type AuthService struct {
	users       ports.UserRepository
	creds       ports.CredentialSource
	throttle    Throttle
	tokenSecret string
	tokenTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthService(users ports.UserRepository, creds ports.CredentialSource, throttle Throttle, tokenSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		creds:       creds,
		throttle:    throttle,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

// Login resolves a principal for the given credentials. The admin pair from
// configuration is tried first, then the moderator pair, then the user store
// with a bcrypt comparison. Every failure path yields the same
// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Principal, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		over, err := s.throttle.TooMany(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, continuing")
		} else if over {
			return nil, domain.ErrTooManyAttempts
		}
	}

	for _, role := range []string{domain.RoleAdmin, domain.RoleModerator} {
		c := s.creds.Current(role)
		if c.Username != "" && username == c.Username && password == c.Password {
			s.log.Info().Str("role", role).Msg("privileged login")
			return &domain.Principal{ID: role, Username: username, Role: role}, nil
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.fail(ctx, username)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, s.fail(ctx, username)
	}

	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	s.log.Info().Str("user_id", user.ID).Msg("login")
	return &domain.Principal{ID: user.ID, Username: user.Username, Role: role}, nil
}

func (s *AuthService) fail(ctx context.Context, username string) error {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	return domain.ErrInvalidCredentials
}

// IssueToken mints a signed bearer token carrying the principal.
func (s *AuthService) IssueToken(p *domain.Principal) (string, error) {
	claims := jwt.MapClaims{
		"sub":      p.ID,
		"username": p.Username,
		"role":     p.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.tokenSecret))
}

// ParseToken validates a bearer token and rebuilds its principal.
func (s *AuthService) ParseToken(token string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.tokenSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Principal{ID: sub, Username: username, Role: role}, nil
}
