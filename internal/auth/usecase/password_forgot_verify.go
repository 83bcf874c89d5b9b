package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
)

type PasswordForgotVerifyInput struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required,otp"`
}

// PasswordForgotVerify is a pre-flight check for the reset flow: it reports
// whether the submitted code is currently valid without consuming it. The
// code stays stored so PasswordReset can be called afterwards; the (email,
// otp) pair, not this call, is what authorizes the reset.
func (s *Usecase) PasswordForgotVerify(ctx context.Context, in PasswordForgotVerifyInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgotVerify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.allowRate(ctx, "password_forgot_verify", in.Email); err != nil {
		return err
	}

	user, err := s.repoDB.GetCredentialByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "reset otp verify for unknown email")
		return goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get credential by email", "error", err)
		return goerror.NewServer(err)
	}

	return s.checkOTP(ctx, user, in.OTP)
}
