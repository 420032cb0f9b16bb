package session

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	CSRFCookieName = "csrf"
	CSRFFieldName  = "csrf_token"

	csrfMaxAge = 24 * time.Hour
)

// EnsureCSRFToken returns the double-submit token, issuing a cookie when none exists yet.
func EnsureCSRFToken(w http.ResponseWriter, r *http.Request, secure bool) string {
	if token := CSRFToken(r); token != "" {
		return token
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(csrfMaxAge.Seconds()),
	})
	return token
}

func CSRFToken(r *http.Request) string {
	if r == nil {
		return ""
	}

	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func ValidCSRF(r *http.Request) bool {
	cookieToken := CSRFToken(r)
	formToken := r.FormValue(CSRFFieldName)

	if cookieToken == "" || formToken == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) == 1
}

type csrfContextKey struct{}

// WithCSRF makes sure every response carries the CSRF cookie and exposes the
// token to loaders through the request context.
func WithCSRF(secure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := EnsureCSRFToken(w, r, secure)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)))
	})
}

func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}
