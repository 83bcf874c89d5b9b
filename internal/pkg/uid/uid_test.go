package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_Generate(t *testing.T) {
	gen, err := NewSnowflake(1)
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 100)
	prev := int64(0)
	for range 100 {
		id := gen.Generate()
		assert.Positive(t, id)
		assert.GreaterOrEqual(t, id, prev, "ids must be time-ordered")
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
		prev = id
	}
}

func TestNewSnowflake_InvalidNode(t *testing.T) {
	_, err := NewSnowflake(1 << 20)
	assert.Error(t, err)
}

func TestUUID_Generate(t *testing.T) {
	gen := NewUUID()

	one := gen.Generate()
	two := gen.Generate()

	assert.NotEqual(t, one, two)
	_, err := uuid.Parse(one)
	assert.NoError(t, err)
}
