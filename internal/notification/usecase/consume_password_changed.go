package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goauthn/internal/notification/entity"
	"github.com/shandysiswandi/goauthn/internal/pkg/mail"
	"github.com/shandysiswandi/goauthn/internal/pkg/valueobject"
)

const passwordChangedSubject = "Your password was changed"

const passwordChangedBody = `<p>Hello,</p>
<p>The password for your account was changed. If you made this change, no
further action is needed.</p>
<p>If you did not change your password, contact us immediately at
{{.support_email}}.</p>
<p>&copy; {{.year}}</p>`

type ConsumePasswordChangedInput struct {
	UserID int64  `validate:"required,gt=0"`
	Email  string `validate:"required,email"`
}

// ConsumePasswordChanged records the change and emails a security alert to
// the account owner. The alert is best-effort; a send failure only marks the
// event as failed.
func (s *Usecase) ConsumePasswordChanged(ctx context.Context, in ConsumePasswordChangedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordChanged")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	eventID := s.uid.Generate()
	if err := s.repoDB.CreateSecurityEvent(ctx, entity.CreateSecurityEvent{
		ID:         eventID,
		UserID:     in.UserID,
		TriggerKey: entity.TriggerKeyPasswordChanged,
		Data:       valueobject.JSONMap{"email": in.Email},
		Delivery:   entity.DeliveryStatusFailed,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create security event", "user_id", in.UserID, "error", err)
		return err
	}

	body, err := s.renderTemplate("password_changed", passwordChangedBody, s.baseEmailTemplateData())
	if err != nil {
		slog.ErrorContext(ctx, "failed to render password changed email", "user_id", in.UserID, "error", err)
		return nil
	}

	if err := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  passwordChangedSubject,
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send password changed email", "user_id", in.UserID, "error", err)
		return nil
	}

	if err := s.repoDB.UpdateSecurityEventDelivery(ctx, eventID, entity.DeliveryStatusSent); err != nil {
		slog.ErrorContext(ctx, "failed to repo update security event delivery", "event_id", eventID, "error", err)
	}

	return nil
}
