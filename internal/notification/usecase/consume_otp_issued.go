package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goauthn/internal/notification/entity"
	"github.com/shandysiswandi/goauthn/internal/pkg/valueobject"
)

type ConsumeOTPIssuedInput struct {
	UserID  int64  `validate:"required,gt=0"`
	Email   string `validate:"required,email"`
	Purpose string `validate:"required"`
}

// ConsumeOTPIssued records the issuance in the security audit trail. The OTP
// email itself is sent synchronously by the auth module; this consumer only
// keeps the history.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if err := s.repoDB.CreateSecurityEvent(ctx, entity.CreateSecurityEvent{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		TriggerKey: entity.TriggerKeyOTPIssued,
		Data: valueobject.JSONMap{
			"email":   in.Email,
			"purpose": in.Purpose,
		},
		Delivery: entity.DeliveryStatusNone,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create security event", "user_id", in.UserID, "error", err)
		return err
	}

	return nil
}
