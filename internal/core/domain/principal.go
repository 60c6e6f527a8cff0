package domain

// Principal is the authenticated identity attached to a request. It is built
// once per request from the session cookie or a bearer token and threaded
// explicitly through the authorization policy and the resource engine. It is
// never persisted.
type Principal struct {
	// ID is the literal "admin"/"moderator" tag for privileged logins, or the
	// stored user identifier for everyone else.
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Privileged reports whether the principal holds an externally configured
// identity that must be revalidated against current configuration.
func (p *Principal) Privileged() bool {
	return p.Role == RoleAdmin || p.Role == RoleModerator
}
