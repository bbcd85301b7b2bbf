package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"time"
)

const (
	// OTPLifetime is how long a code stays redeemable after issuance.
	OTPLifetime = 10 * time.Minute

	// OTPMaxAttempts is the number of failed matches allowed before a
	// challenge locks until a fresh code is issued.
	OTPMaxAttempts = 5
)

// NewOTP generates a uniformly random 6-digit code together with its
// sha256 hex digest and absolute expiry. Only the digest is meant to be
// persisted; the plaintext code goes out by mail and is then dropped.
func NewOTP() (code, hash string, expiresAt time.Time, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", "", time.Time{}, err
	}

	code = big.NewInt(0).Add(n, big.NewInt(100000)).String()
	return code, HashOTP(code), time.Now().UTC().Add(OTPLifetime), nil
}

// HashOTP returns the sha256 hex digest of a code.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// OTPMatches reports whether a submitted code digests to the stored hash.
func OTPMatches(submitted, storedHash string) bool {
	calc := HashOTP(submitted)
	return subtle.ConstantTimeCompare([]byte(calc), []byte(storedHash)) == 1
}
