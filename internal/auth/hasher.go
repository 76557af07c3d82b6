package auth

import "golang.org/x/crypto/bcrypt"

const defaultBcryptCost = 12

// PasswordHasher derives and checks salted bcrypt credential hashes.
// bcrypt embeds the cost and a fresh random salt in every encoded hash,
// so two hashes of the same secret never match byte for byte.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}

	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify reports whether secret matches the encoded hash. Any failure,
// including a malformed or foreign hash, is a plain false; the
// comparison itself is constant time inside bcrypt.
func (h *PasswordHasher) Verify(secret string, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(secret)) == nil
}
