package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-auth-api/internal/model"
)

// TokenCodec signs claim sets into bearer tokens and parses them back.
// The key, signing method, and default TTL are fixed at construction;
// nothing here is mutated after startup.
type TokenCodec struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	defaultTTL time.Duration
	now        func() time.Time
}

func NewTokenCodec(secret string, algorithm string, defaultTTL time.Duration) (*TokenCodec, error) {
	method, err := signingMethod(algorithm)
	if err != nil {
		return nil, err
	}

	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}

	return &TokenCodec{
		secret:     []byte(strings.TrimSpace(secret)),
		method:     method,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

func signingMethod(algorithm string) (*jwt.SigningMethodHMAC, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
}

// DefaultTTL reports the lifetime applied when Issue is called with a
// non-positive ttl.
func (c *TokenCodec) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Issue signs claims into a compact token. A non-positive ttl falls
// back to the codec default. The expiry is always set here; any expiry
// already present on claims is overwritten.
func (c *TokenCodec) Issue(claims model.ClaimSet, ttl time.Duration) (string, error) {
	if len(c.secret) == 0 {
		return "", model.ErrMissingKey
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	now := c.now().UTC()
	payload := jwt.MapClaims{
		"sub": claims.Subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if claims.Email != "" {
		payload["email"] = claims.Email
	}
	for name, value := range claims.Extra {
		if _, reserved := payload[name]; reserved {
			continue
		}
		payload[name] = value
	}

	return jwt.NewWithClaims(c.method, payload).SignedString(c.secret)
}

// Verify parses and validates a presented token, stripping an optional
// "Bearer " prefix first. Failures are reduced to exactly one of
// model.ErrTokenExpired (signature valid, expiry passed),
// model.ErrTokenInvalid (anything malformed or tampered), or
// model.ErrMissingKey (server misconfiguration).
func (c *TokenCodec) Verify(tokenString string) (model.ClaimSet, error) {
	if len(c.secret) == 0 {
		return model.ClaimSet{}, model.ErrMissingKey
	}

	tokenString = strings.TrimSpace(tokenString)
	if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "bearer ") {
		tokenString = strings.TrimSpace(tokenString[7:])
	}

	parsed, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, model.ErrTokenInvalid
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		// Claim validation only runs after the signature checks out,
		// so an expiry error here implies an authentic token.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.ClaimSet{}, model.ErrTokenExpired
		}
		return model.ClaimSet{}, model.ErrTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return model.ClaimSet{}, model.ErrTokenInvalid
	}

	return claimSetFromMap(claimsMap), nil
}

func claimSetFromMap(claimsMap jwt.MapClaims) model.ClaimSet {
	claims := model.ClaimSet{}
	claims.Subject, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)

	if iat, err := claimsMap.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	for name, value := range claimsMap {
		switch name {
		case "sub", "email", "iat", "exp":
			continue
		}
		if claims.Extra == nil {
			claims.Extra = map[string]any{}
		}
		claims.Extra[name] = value
	}

	return claims
}
