// Package session exposes the request-scoped session token and CSRF helpers.
// The token is only checked for presence; validating it is the post API's job.
package session

import (
	"net/http"
	"strings"
)

const DefaultCookieName = "token"

type TokenSource interface {
	Token() (string, bool)
}

type cookieToken struct {
	r    *http.Request
	name string
}

func FromRequest(r *http.Request, cookieName string) TokenSource {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = DefaultCookieName
	}

	return cookieToken{r: r, name: cookieName}
}

func (c cookieToken) Token() (string, bool) {
	if c.r == nil {
		return "", false
	}

	cookie, err := c.r.Cookie(c.name)
	if err != nil {
		return "", false
	}

	value := strings.TrimSpace(cookie.Value)
	return value, value != ""
}

// Static is a fixed token, mostly useful in tests. The empty value means no session.
type Static string

func (s Static) Token() (string, bool) {
	value := strings.TrimSpace(string(s))
	return value, value != ""
}

func HasToken(source TokenSource) bool {
	if source == nil {
		return false
	}

	_, ok := source.Token()
	return ok
}
