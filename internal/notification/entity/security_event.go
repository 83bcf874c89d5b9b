package entity

import (
	"time"

	"github.com/shandysiswandi/goauthn/internal/pkg/valueobject"
)

type CreateSecurityEvent struct {
	ID         int64
	UserID     int64
	TriggerKey TriggerKey
	Data       valueobject.JSONMap
	Delivery   DeliveryStatus
}

type SecurityEvent struct {
	ID         int64
	UserID     int64
	TriggerKey TriggerKey
	Data       valueobject.JSONMap
	Delivery   DeliveryStatus
	CreatedAt  time.Time
}
