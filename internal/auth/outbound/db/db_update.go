package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
)

// SetCredentialOTP writes a new OTP digest and its deadline, replacing any
// outstanding challenge on the record.
func (s *DB) SetCredentialOTP(ctx context.Context, id int64, digest string, expiresAt time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "SetCredentialOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE auth_user_credentials
		SET otp = $2, otp_expires_at = $3, updated_at = now()
		WHERE id = $1`,
		id, digest, expiresAt,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

// ConsumeCredentialOTP clears the challenge only while the given digest is
// still the stored one, so concurrent verifies cannot spend the same code
// twice. goerror.ErrNotFound means the code was already consumed or replaced.
func (s *DB) ConsumeCredentialOTP(ctx context.Context, id int64, digest string) (err error) {
	ctx, span := s.startSpan(ctx, "ConsumeCredentialOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE auth_user_credentials
		SET otp = NULL, otp_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND otp = $2`,
		id, digest,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

// ResetCredentialPassword replaces the password hash and clears the OTP in a
// single statement so no window exists where the old challenge can still
// authorize the new password.
func (s *DB) ResetCredentialPassword(ctx context.Context, id int64, newHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetCredentialPassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE auth_user_credentials
		SET password = $2, otp = NULL, otp_expires_at = NULL, updated_at = now()
		WHERE id = $1`,
		id, newHash,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
