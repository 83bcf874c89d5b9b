package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goauthn/internal/notification/entity"
	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
)

const defaultSecurityEventLimit int32 = 50

type ListSecurityEventsInput struct {
	UserID int64 `validate:"required,gt=0"`
	Limit  int32 `validate:"gte=0,lte=200"`
}

func (s *Usecase) ListSecurityEvents(ctx context.Context, in ListSecurityEventsInput) ([]entity.SecurityEvent, error) {
	ctx, span := s.startSpan(ctx, "ListSecurityEvents")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Limit == 0 {
		in.Limit = defaultSecurityEventLimit
	}

	events, err := s.repoDB.ListSecurityEventsByUser(ctx, in.UserID, in.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list security events", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return events, nil
}
