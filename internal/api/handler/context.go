package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ruetfest/festcrm/internal/api/middleware"
	"github.com/ruetfest/festcrm/internal/core/domain"
)

// ctxPrincipal extracts the principal resolved by the Principal middleware.
// nil means the request is unauthenticated; services treat that as a policy
// denial, so handlers can pass it through without a pre-check.
func ctxPrincipal(c echo.Context) *domain.Principal {
	return middleware.PrincipalFrom(c)
}
