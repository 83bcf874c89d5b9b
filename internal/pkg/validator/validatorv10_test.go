package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginInput struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required,password"`
}

type verifyInput struct {
	Email   string `validate:"required,email"`
	OTPCode string `validate:"required,otp"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid login input", func(t *testing.T) {
		assert.NoError(t, v.Validate(loginInput{
			Identifier: "user@example.com",
			Password:   "correct horse battery",
		}))
	})

	t.Run("missing fields", func(t *testing.T) {
		err := v.Validate(loginInput{})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Values(), "identifier")
		assert.Contains(t, verr.Values(), "password")
	})

	t.Run("password too short", func(t *testing.T) {
		err := v.Validate(loginInput{Identifier: "user@example.com", Password: "short"})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Password must be 8-72 characters", verr.Values()["password"])
	})

	t.Run("valid otp input", func(t *testing.T) {
		assert.NoError(t, v.Validate(verifyInput{Email: "user@example.com", OTPCode: "123456"}))
	})

	t.Run("otp with leading zero", func(t *testing.T) {
		err := v.Validate(verifyInput{Email: "user@example.com", OTPCode: "012345"})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "OTPCode must be a 6-digit code", verr.Values()["otp_code"])
	})

	t.Run("otp wrong length", func(t *testing.T) {
		err := v.Validate(verifyInput{Email: "user@example.com", OTPCode: "12345"})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Values(), "otp_code")
	})

	t.Run("bad email", func(t *testing.T) {
		err := v.Validate(verifyInput{Email: "not-an-email", OTPCode: "123456"})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Values(), "email")
	})
}

func TestV10ValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
	assert.JSONEq(t, `{"email":"bad"}`, V10ValidationError{"email": "bad"}.Error())
}
