package middleware

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/ruetfest/festcrm/internal/core/domain"
)

// SessionName is the cookie name holding the browser session.
const SessionName = "festcrm_session"

const sessionMaxAge = 7 * 24 * 60 * 60

// Session returns the cookie-session middleware backed by a store signed
// with the session secret.
func Session(secret string) echo.MiddlewareFunc {
	return session.Middleware(sessions.NewCookieStore([]byte(secret)))
}

// SavePrincipal stores the principal in the session cookie.
func SavePrincipal(c echo.Context, p *domain.Principal) error {
	sess, _ := session.Get(SessionName, c)
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
	}
	sess.Values["user_id"] = p.ID
	sess.Values["username"] = p.Username
	sess.Values["role"] = p.Role
	return sess.Save(c.Request(), c.Response())
}

// ClearSession drops every session value. Notices survive as one-time flash
// messages for the next request, so the holder learns why they were logged
// out.
func ClearSession(c echo.Context, notices ...string) error {
	sess, _ := session.Get(SessionName, c)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	for _, n := range notices {
		sess.AddFlash(n)
	}
	return sess.Save(c.Request(), c.Response())
}

// Flashes consumes and returns the pending one-time notices.
func Flashes(c echo.Context) []string {
	sess, _ := session.Get(SessionName, c)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func principalFromSession(c echo.Context) *domain.Principal {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return nil
	}
	id, _ := sess.Values["user_id"].(string)
	if id == "" {
		return nil
	}
	username, _ := sess.Values["username"].(string)
	role, _ := sess.Values["role"].(string)
	return &domain.Principal{ID: id, Username: username, Role: role}
}
