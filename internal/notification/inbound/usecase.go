package inbound

import (
	"context"

	"github.com/shandysiswandi/goauthn/internal/notification/entity"
	"github.com/shandysiswandi/goauthn/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
	ConsumePasswordChanged(ctx context.Context, in usecase.ConsumePasswordChangedInput) error
}

type uc interface {
	ucConsumer

	ListSecurityEvents(ctx context.Context, in usecase.ListSecurityEventsInput) ([]entity.SecurityEvent, error)
}
