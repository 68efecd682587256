package token

import (
	"net/http"
	"time"
)

// CookieSetter writes issued tokens as browser cookies. HttpOnly and
// Secure come from deployment config; path and SameSite are fixed for
// the whole app.
type CookieSetter struct {
	path     string
	httpOnly bool
	secure   bool
	sameSite http.SameSite
}

// NewCookieSetter creates a cookie setter
func NewCookieSetter(httpOnly, secure bool) CookieSetter {
	return CookieSetter{
		path:     "/",
		httpOnly: httpOnly,
		secure:   secure,
		sameSite: http.SameSiteLaxMode,
	}
}

// SetCookie writes one cookie expiring at the given time
func (c CookieSetter) SetCookie(w http.ResponseWriter, name, value string, expire time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     c.path,
		Value:    value,
		Expires:  expire,
		HttpOnly: c.httpOnly,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

// ClearCookie expires a cookie immediately
func (c CookieSetter) ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     c.path,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: c.httpOnly,
		Secure:   c.secure,
	})
}

// SetTokensCookie writes every issued token as a cookie that expires
// with the token itself.
func SetTokensCookie(setter CookieSetter, w http.ResponseWriter, tokens map[string]AuthToken) {
	for name, t := range tokens {
		setter.SetCookie(w, name, t.Token, t.Expiry)
	}
}

// ClearTokensCookie drops the access and refresh token cookies on logout
func ClearTokensCookie(setter CookieSetter, w http.ResponseWriter) {
	setter.ClearCookie(w, ACCESS_TOKEN_NAME)
	setter.ClearCookie(w, REFRESH_TOKEN_NAME)
}
