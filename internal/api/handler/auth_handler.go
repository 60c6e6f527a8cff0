package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ruetfest/festcrm/internal/api/metrics"
	"github.com/ruetfest/festcrm/internal/api/middleware"
	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
)

type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginPageResponse struct {
	Messages []string `json:"messages"`
}

type tokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// LoginPage handles GET /login. Page rendering lives elsewhere; this surface
// only drains the pending one-time notices (e.g. after a stale privileged
// session was cleared).
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, loginPageResponse{Messages: middleware.Flashes(c)})
}

// Login authenticates form or JSON credentials and establishes the session
// principal.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      429   {object}  envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: err.Error()})
	}

	p, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, envelope{Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusUnauthorized, envelope{Message: "Invalid username or password!"})
		}
		// Storage faults are not credential failures; let the central handler
		// log them and answer 500.
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	if err := middleware.SavePrincipal(c, p); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Login successfully!"})
}

// Logout clears the session unconditionally. Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := middleware.ClearSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Logged out successfully!"})
}

// Token handles POST /api/token: a JSON login that returns a bearer token
// for non-browser clients instead of setting a cookie.
//
// @Summary      Issue an API token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	token, err := h.auth.IssueToken(p)
	if err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token, Role: p.Role})
}
