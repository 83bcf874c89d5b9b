package inbound

import (
	"github.com/shandysiswandi/goauthn/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Security audit trail
	r.GET("/api/v1/notifications/security-events", end.ListSecurityEvents)
}
