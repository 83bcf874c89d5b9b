package inbound

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Email string `json:"email"`
}

func (LoginResponse) Message() string {
	return "We have sent a one-time code to your email. Enter it to finish signing in."
}

type LoginVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type LoginVerifyResponse struct{}

func (LoginVerifyResponse) Message() string {
	return "You are signed in."
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "We have sent a password reset code to your email."
}

type PasswordForgotVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type PasswordForgotVerifyResponse struct{}

func (PasswordForgotVerifyResponse) Message() string {
	return "The code is valid. You can now set a new password."
}

type PasswordResetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Your password has been updated."
}
