package config

import (
	"os"

	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
)

// EnvCredentials resolves privileged credentials from the process
// environment on every call rather than caching them at startup, so a
// credential rotation is visible on the very next request.
type EnvCredentials struct{}

func (EnvCredentials) Current(role string) ports.Credentials {
	switch role {
	case domain.RoleAdmin:
		return ports.Credentials{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		}
	case domain.RoleModerator:
		return ports.Credentials{
			Username: os.Getenv("MODERATOR_USERNAME"),
			Password: os.Getenv("MODERATOR_PASSWORD"),
		}
	}
	return ports.Credentials{}
}
