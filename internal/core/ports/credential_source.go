package ports

// Credentials is a privileged username/password pair.
type Credentials struct {
	Username string
	Password string
}

// CredentialSource resolves the externally configured credentials for a
// privileged role (admin or moderator). Implementations re-read the backing
// configuration on every call so a credential rotation takes effect without a
// process restart. Unknown roles and absent configuration yield empty
// credentials, which can never match a real login attempt.
type CredentialSource interface {
	Current(role string) Credentials
}
