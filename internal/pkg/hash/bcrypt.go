package hash

import "golang.org/x/crypto/bcrypt"

// BcryptHash hashes passwords with bcrypt. The zero value uses the
// library default cost.
type BcryptHash struct {
	cost int
}

// NewBcryptHash returns a BcryptHash with the given cost. A cost outside
// the bcrypt range falls back to bcrypt.DefaultCost.
func NewBcryptHash(cost int) *BcryptHash {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHash{cost: cost}
}

func (b *BcryptHash) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
}

func (b *BcryptHash) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
