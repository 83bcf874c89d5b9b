package instrument

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	inst, err := New(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, inst.Tracer("test"))
	assert.NotNil(t, inst.Meter("test"))
	assert.NoError(t, inst.Shutdown(context.Background()))

	inst, err = New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	assert.NotNil(t, inst)
}

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetCorrelationID(ctx))

	ctx = SetCorrelationID(ctx, "abc-123")
	assert.Equal(t, "abc-123", GetCorrelationID(ctx))
}

func TestMaskAttr(t *testing.T) {
	keys := buildMaskKeys([]string{"Password", " otp ", ""})

	t.Run("direct key", func(t *testing.T) {
		got := maskAttr(slog.String("password", "hunter22"), keys)
		assert.Equal(t, "***", got.Value.String())
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := maskAttr(slog.String("OTP", "123456"), keys)
		assert.Equal(t, "***", got.Value.String())
	})

	t.Run("nested group", func(t *testing.T) {
		got := maskAttr(slog.Group("req", slog.String("otp", "123456"), slog.String("email", "a@b.c")), keys)

		group := got.Value.Group()
		require.Len(t, group, 2)
		assert.Equal(t, "***", group[0].Value.String())
		assert.Equal(t, "a@b.c", group[1].Value.String())
	})

	t.Run("json string payload", func(t *testing.T) {
		got := maskAttr(slog.String("body", `{"email":"a@b.c","password":"hunter22"}`), keys)
		assert.JSONEq(t, `{"email":"a@b.c","password":"***"}`, got.Value.String())
	})

	t.Run("map payload", func(t *testing.T) {
		got := maskAttr(slog.Any("data", map[string]any{"otp": "123456", "id": 1}), keys)
		assert.Equal(t, map[string]any{"otp": "***", "id": 1}, got.Value.Any())
	})

	t.Run("untouched", func(t *testing.T) {
		got := maskAttr(slog.String("email", "a@b.c"), keys)
		assert.Equal(t, "a@b.c", got.Value.String())
	})
}
