package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
)

type LoginVerifyInput struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required,otp"`
}

// LoginVerify completes the OTP challenge started by Login. A matching,
// unexpired code authenticates the call and is cleared so it cannot be
// replayed.
func (s *Usecase) LoginVerify(ctx context.Context, in LoginVerifyInput) error {
	ctx, span := s.startSpan(ctx, "LoginVerify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.allowRate(ctx, "login_verify", in.Email); err != nil {
		return err
	}

	user, err := s.repoDB.GetCredentialByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp verify for unknown email")
		return goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get credential by email", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.checkOTP(ctx, user, in.OTP); err != nil {
		return err
	}

	// The conditional consume is the authority on single-use: if another
	// verify spent the code after our read, the digest no longer matches.
	err = s.repoDB.ConsumeCredentialOTP(ctx, user.ID, *user.OTP)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp already consumed", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume credential otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
