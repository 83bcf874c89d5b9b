package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Generator produces one-time numeric codes.
type Generator interface {
	// Generate returns a fresh code as a string of decimal digits.
	Generate() (string, error)
}

// NumericGenerator generates 6-digit codes uniformly from [100000, 999999]
// using crypto/rand. The lower bound guarantees no leading zero, so every
// code is exactly six ASCII digits.
type NumericGenerator struct{}

// NewNumeric returns a cryptographically random 6-digit code generator.
func NewNumeric() *NumericGenerator {
	return &NumericGenerator{}
}

// Generate returns a uniform random code in [100000, 999999].
func (*NumericGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(codeMin+n.Int64(), 10), nil
}

// IsWellFormed reports whether code looks like a code this package generates:
// exactly six decimal digits with no leading zero.
func IsWellFormed(code string) bool {
	if len(code) != 6 {
		return false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}

	return code[0] != '0'
}
