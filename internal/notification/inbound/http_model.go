package inbound

import (
	"time"

	"github.com/shandysiswandi/goauthn/internal/pkg/valueobject"
)

type SecurityEventResponse struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"user_id"`
	TriggerKey string              `json:"trigger_key"`
	Data       valueobject.JSONMap `json:"data"`
	Delivery   string              `json:"delivery"`
	CreatedAt  time.Time           `json:"created_at"`
}
