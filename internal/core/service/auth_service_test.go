package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	inserts int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (string, error) {
	if _, exists := r.users[user.Username]; exists {
		return "", domain.ErrDuplicate
	}
	clone := *user
	if clone.ID == "" {
		clone.ID = "id_" + clone.Username
	}
	r.users[clone.Username] = &clone
	r.inserts++
	return clone.ID, nil
}

func (r *stubUserRepo) addUser(username, password, role string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	r.users[username] = &domain.User{
		ID:           "id_" + username,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
}

// fakeCreds serves static privileged credentials and counts lookups.
type fakeCreds struct {
	pairs map[string]ports.Credentials
	calls int
}

func (f *fakeCreds) Current(role string) ports.Credentials {
	f.calls++
	return f.pairs[role]
}

func testCreds() *fakeCreds {
	return &fakeCreds{pairs: map[string]ports.Credentials{
		domain.RoleAdmin:     {Username: "root", Password: "rootpw"},
		domain.RoleModerator: {Username: "mod", Password: "modpw"},
	}}
}

type stubThrottle struct {
	over     bool
	checks   int
	failures []string
}

func (s *stubThrottle) TooMany(_ context.Context, _ string) (bool, error) {
	s.checks++
	return s.over, nil
}

func (s *stubThrottle) RecordFailure(_ context.Context, username string) error {
	s.failures = append(s.failures, username)
	return nil
}

func newAuthService(repo *stubUserRepo, creds *fakeCreds, throttle Throttle) *AuthService {
	return NewAuthService(repo, creds, throttle, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Login_AdminFromConfig(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), testCreds(), nil)

	p, err := svc.Login(context.Background(), "root", "rootpw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if p.ID != domain.RoleAdmin || p.Role != domain.RoleAdmin || p.Username != "root" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthService_Login_ModeratorFromConfig(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), testCreds(), nil)

	p, err := svc.Login(context.Background(), "mod", "modpw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if p.Role != domain.RoleModerator {
		t.Fatalf("expected moderator role, got %s", p.Role)
	}
}

func TestAuthService_Login_StoredUser(t *testing.T) {
	repo := newStubUserRepo()
	repo.addUser("carol", "s3cret", "")
	svc := newAuthService(repo, testCreds(), nil)

	p, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if p.ID != "id_carol" {
		t.Fatalf("unexpected id: %s", p.ID)
	}
	if p.Role != domain.RoleUser {
		t.Fatalf("blank stored role should default to %q, got %q", domain.RoleUser, p.Role)
	}
}

// Unknown username, wrong stored password and wrong privileged password must
// be indistinguishable to the caller.
func TestAuthService_Login_FailuresAreUniform(t *testing.T) {
	repo := newStubUserRepo()
	repo.addUser("dave", "goodpass", domain.RoleUser)
	svc := newAuthService(repo, testCreds(), nil)

	cases := []struct{ name, username, password string }{
		{"unknown username", "ghost", "whatever"},
		{"wrong stored password", "dave", "badpass"},
		{"wrong admin password", "root", "nope"},
		{"empty password", "dave", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.username, tc.password); err != domain.ErrInvalidCredentials {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestAuthService_Login_ThrottledBeforeCredentialCheck(t *testing.T) {
	creds := testCreds()
	throttle := &stubThrottle{over: true}
	svc := newAuthService(newStubUserRepo(), creds, throttle)

	if _, err := svc.Login(context.Background(), "root", "rootpw"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if throttle.checks != 1 {
		t.Fatalf("expected one throttle check, got %d", throttle.checks)
	}
	if creds.calls != 0 {
		t.Fatalf("credential source consulted %d times despite throttle", creds.calls)
	}
}

func TestAuthService_Login_FailureRecorded(t *testing.T) {
	throttle := &stubThrottle{}
	svc := newAuthService(newStubUserRepo(), testCreds(), throttle)

	_, _ = svc.Login(context.Background(), "ghost", "pw")
	if len(throttle.failures) != 1 || throttle.failures[0] != "ghost" {
		t.Fatalf("expected one recorded failure for ghost, got %v", throttle.failures)
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), testCreds(), nil)
	p := &domain.Principal{ID: "admin", Username: "root", Role: domain.RoleAdmin}

	token, err := svc.IssueToken(p)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	got, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if *got != *p {
		t.Fatalf("principal mismatch: got %+v want %+v", got, p)
	}
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), testCreds(), nil)
	if _, err := svc.ParseToken("not-a-token"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ParseToken_WrongSecret(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), testCreds(), nil)
	other := NewAuthService(newStubUserRepo(), testCreds(), nil, "other-secret", time.Hour, zerolog.Nop())

	token, err := other.IssueToken(&domain.Principal{ID: "admin", Username: "root", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := svc.ParseToken(token); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
