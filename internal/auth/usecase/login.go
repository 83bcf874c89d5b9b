package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthn/internal/shared/event"
)

type LoginInput struct {
	Identifier string `validate:"required,min=3,max=255"`
	Password   string `validate:"required"`
}

type LoginOutput struct {
	Email string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Identifier = strings.TrimSpace(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.allowRate(ctx, "login", in.Identifier); err != nil {
		return nil, err
	}

	user, err := s.repoDB.GetCredentialByIdentifier(ctx, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login with unknown identifier")
		return nil, goerror.NewBusiness("invalid email/phone or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get credential by identifier", "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "login with wrong password", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid email/phone or password", goerror.CodeUnauthorized)
	}

	if err := s.issueOTP(ctx, user, "Your OTP Code", event.OTPPurposeLogin); err != nil {
		return nil, err
	}

	return &LoginOutput{Email: user.Email}, nil
}
