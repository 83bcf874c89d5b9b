package entity

type DeliveryStatus int16

const (
	// DeliveryStatusNone marks events that carry no outbound email.
	DeliveryStatusNone   DeliveryStatus = 0
	DeliveryStatusSent   DeliveryStatus = 1
	DeliveryStatusFailed DeliveryStatus = 2
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "none"
	}
}

type TriggerKey string

const (
	TriggerKeyOTPIssued       TriggerKey = "otp_issued"
	TriggerKeyPasswordChanged TriggerKey = "password_changed"
)

func (tk TriggerKey) String() string {
	return string(tk)
}
