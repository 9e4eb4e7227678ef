package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash at the configured cost. The cost is
// baked into the hash, so raising BCRYPT_COST later only affects new
// passwords; existing hashes keep verifying at their original cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
