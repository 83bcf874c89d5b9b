package entity

import "time"

// UserCredential is the single credential record behind every auth flow.
// Password holds a bcrypt hash and OTP holds an HMAC-SHA256 digest of the
// outstanding code; both are opaque outside the usecase layer.
type UserCredential struct {
	ID           int64
	Email        string
	Phone        string
	Password     string
	OTP          *string
	OTPExpiresAt *time.Time
	UpdatedAt    time.Time
}

// HasOTP reports whether a challenge is currently outstanding.
func (u *UserCredential) HasOTP() bool {
	return u.OTP != nil && *u.OTP != ""
}
