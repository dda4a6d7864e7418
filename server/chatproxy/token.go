package chatproxy

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hiveswitch/companion/server/store/storemodels"
)

// TokenExpiry extracts the expiry of a proxy session token, when the token is
// a JWT carrying an exp claim. The signature is deliberately not verified;
// only the proxy can do that, and the result is used purely as a refresh
// hint. The cookie-session sentinel has no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" || token == storemodels.ChatTokenCookieSession {
		return time.Time{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenNearExpiry reports whether the session token expires within the given
// window, meaning the next cycle is likely to hit the recovery chain anyway.
func TokenNearExpiry(token string, window time.Duration) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return time.Until(exp) < window
}
