package hash

// Hash hashes secrets and verifies submitted values against stored hashes.
//
// Verify must never leak more than a yes/no answer: implementations compare
// in constant time (or delegate to a primitive that does).
type Hash interface {
	// Hash returns the hash of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored hashed value.
	Verify(hashed, plaintext string) bool
}
