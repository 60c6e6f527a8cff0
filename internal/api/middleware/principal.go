package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ruetfest/festcrm/internal/api/metrics"
	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
)

const principalKey = "principal"

// Principal runs before every handler. It reconciles the privileged user
// rows with current configuration, resolves the request principal from the
// session cookie or a bearer token, and evicts principals whose privileged
// identity was minted under credentials that have since been rotated.
func Principal(rec ports.Reconciler, auth ports.AuthService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := rec.EnsureAccounts(c.Request().Context()); err != nil {
				// Handlers surface their own storage errors; the request can
				// still proceed.
				log.Error().Err(err).Msg("privileged account reconciliation failed")
			}

			fromSession := true
			p := principalFromSession(c)
			if p == nil {
				fromSession = false
				p = principalFromToken(c, auth)
			}

			if p != nil && rec.Stale(p) {
				metrics.SessionInvalidationsTotal.Inc()
				log.Warn().
					Str("role", p.Role).
					Str("username", p.Username).
					Msg("stale privileged session invalidated")
				if fromSession {
					if err := ClearSession(c, staleNotice(p.Role)); err != nil {
						log.Error().Err(err).Msg("failed to clear stale session")
					}
					if !isAPIRequest(c) {
						return c.Redirect(http.StatusFound, "/login")
					}
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "session is no longer valid, please log in again")
			}

			if p != nil {
				c.Set(principalKey, p)
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests that carry no authenticated principal.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if PrincipalFrom(c) == nil {
				if !isAPIRequest(c) {
					return c.Redirect(http.StatusFound, "/login")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the request principal, or nil when unauthenticated.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

func principalFromToken(c echo.Context, auth ports.AuthService) *domain.Principal {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	p, err := auth.ParseToken(parts[1])
	if err != nil {
		return nil
	}
	return p
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func staleNotice(role string) string {
	if role == domain.RoleModerator {
		return "Moderator credentials changed. Please log in again."
	}
	return "Admin credentials changed. Please log in again."
}
