package auth

import "crypto/subtle"

// SecureCompare reports whether got equals want without leaking where
// the two first differ. A length mismatch is the only short circuit;
// equal-length inputs are compared byte-for-byte in full.
func SecureCompare(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
