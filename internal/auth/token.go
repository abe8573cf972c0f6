package auth // package auth implements the stateless provider token service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// Verification failure modes. The HTTP layer collapses all of them into a
// single 401, but the distinction matters for audit logging and for tests
// that assert on tamper detection versus expiry.
var (
	// ErrMalformedToken indicates the token is not a three-segment compact
	// serialization or one of its segments cannot be decoded.
	ErrMalformedToken = errors.New("malformed token")
	// ErrBadSignature indicates the recomputed HMAC does not match the
	// signature segment.
	ErrBadSignature = errors.New("bad token signature")
	// ErrExpired indicates the token was valid but its expiry has passed.
	ErrExpired = errors.New("token expired")
)

// tokenTTL is the fixed lifetime of every issued token. It is a policy
// constant, not per-call configuration: clients re-authenticate weekly.
const tokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies HS256-signed provider tokens. Tokens are
// self-contained: validity is determined purely by signature and expiry, so
// the service keeps no state beyond the signing secret injected at startup.
type TokenService struct {
	secret []byte
	now    func() time.Time // overridable clock for expiry tests
}

// NewTokenService returns a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs the given claims and returns the compact token string. The
// claim set is copied and extended with "iat" (now) and "exp" (now plus
// seven days); caller-supplied iat/exp values are overwritten. The result
// is the standard three-segment form: base64url header, base64url claims
// and base64url HMAC-SHA256 signature joined by dots, without padding.
func (s *TokenService) Issue(claims map[string]any) (string, error) {
	now := s.now().UTC()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(tokenTTL).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return t.SignedString(s.secret)
}

// Verify parses and validates a compact token and returns its claim set.
// Failures are reported as ErrMalformedToken, ErrBadSignature or ErrExpired.
// Only the HS256 algorithm is accepted; the signature comparison inside the
// library uses hmac.Equal and is therefore constant-time. A token whose
// expiry equals the current instant is already expired.
func (s *TokenService) Verify(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrMalformedToken
		}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
