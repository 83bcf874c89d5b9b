package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HMACSHA256Hash produces keyed digests for short secrets such as OTP codes,
// where bcrypt would be wasteful and an unkeyed digest would be brute-forceable.
type HMACSHA256Hash struct {
	key []byte
}

func NewHMACSHA256Hash(key string) *HMACSHA256Hash {
	return &HMACSHA256Hash{key: []byte(key)}
}

func (h *HMACSHA256Hash) Hash(plaintext string) ([]byte, error) {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(plaintext))

	return []byte(hex.EncodeToString(mac.Sum(nil))), nil
}

func (h *HMACSHA256Hash) Verify(hashed, plaintext string) bool {
	sum, err := h.Hash(plaintext)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(sum, []byte(hashed)) == 1
}
