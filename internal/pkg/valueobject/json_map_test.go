package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_Value(t *testing.T) {
	m := JSONMap{"email": "a@b.c", "user_id": int64(7)}

	v, err := m.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c","user_id":7}`, string(v.([]byte)))
}

func TestJSONMap_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    JSONMap
		wantErr bool
	}{
		{name: "nil", value: nil, want: JSONMap{}},
		{name: "bytes", value: []byte(`{"email":"a@b.c"}`), want: JSONMap{"email": "a@b.c"}},
		{name: "string", value: `{"n":1}`, want: JSONMap{"n": float64(1)}},
		{name: "decoded map", value: map[string]any{"k": "v"}, want: JSONMap{"k": "v"}},
		{name: "unsupported", value: 42, wantErr: true},
		{name: "invalid json", value: []byte(`{`), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var m JSONMap
			err := m.Scan(tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, m)
		})
	}
}

func TestJSONMap_Accessors(t *testing.T) {
	m := JSONMap{}
	m.Set("email", "a@b.c")
	m.Set("count", float64(3))

	assert.Equal(t, "a@b.c", m.GetString("email"))
	assert.Empty(t, m.GetString("missing"))
	assert.Equal(t, int64(3), m.GetInt64("count"))
	assert.Zero(t, m.GetInt64("email"))
}
