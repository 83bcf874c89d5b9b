package inbound

import (
	"strconv"

	"github.com/samber/lo"
	"github.com/shandysiswandi/goauthn/internal/notification/entity"
	"github.com/shandysiswandi/goauthn/internal/notification/usecase"
	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthn/internal/pkg/router"
)

// HTTPEndpoint exposes read access to the security event audit trail.
type HTTPEndpoint struct {
	uc uc
}

// ListSecurityEvents returns the most recent security events for a user.
// @Summary List security events
// @Tags Notification
// @Produce json
// @Param user_id query int true "User ID"
// @Param limit query int false "Maximum rows, default 50"
// @Success 200 {object} router.successResponse{data=[]SecurityEventResponse} "Events"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/security-events [get]
func (h *HTTPEndpoint) ListSecurityEvents(r *router.Request) (any, error) {
	userID, err := strconv.ParseInt(r.GetQuery("user_id"), 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "user_id", "must be a valid number")
	}

	var limit int64
	if raw := r.GetQuery("limit"); raw != "" {
		if limit, err = strconv.ParseInt(raw, 10, 32); err != nil {
			return nil, goerror.NewInvalidInput(nil, "limit", "must be a valid number")
		}
	}

	events, err := h.uc.ListSecurityEvents(r.Context(), usecase.ListSecurityEventsInput{
		UserID: userID,
		Limit:  int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(events, func(ev entity.SecurityEvent, _ int) SecurityEventResponse {
		return SecurityEventResponse{
			ID:         ev.ID,
			UserID:     ev.UserID,
			TriggerKey: ev.TriggerKey.String(),
			Data:       ev.Data,
			Delivery:   ev.Delivery.String(),
			CreatedAt:  ev.CreatedAt,
		}
	}), nil
}
