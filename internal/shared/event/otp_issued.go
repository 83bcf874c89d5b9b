package event

const OTPIssuedDestination string = "auth_otp_issued"
const OTPIssuedConsumerNotification string = "auth_otp_issued_notification"

// OTP purposes carried by OTPIssuedMessage.
const (
	OTPPurposeLogin         string = "login"
	OTPPurposePasswordReset string = "password_reset"
)

// OTPIssuedMessage announces that an OTP was generated and emailed to a user.
// It never carries the code itself.
type OTPIssuedMessage struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}
