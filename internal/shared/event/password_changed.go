package event

const PasswordChangedDestination string = "auth_password_changed"
const PasswordChangedConsumerNotification string = "auth_password_changed_notification"

// PasswordChangedMessage announces that a user's password was replaced
// through the reset flow.
type PasswordChangedMessage struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}
