package db

import (
	"context"

	"github.com/shandysiswandi/goauthn/internal/auth/entity"
)

const credentialColumns = `id, email, phone, password, otp, otp_expires_at, updated_at`

func (s *DB) scanCredential(row interface{ Scan(dest ...any) error }) (*entity.UserCredential, error) {
	var cred entity.UserCredential
	err := row.Scan(
		&cred.ID,
		&cred.Email,
		&cred.Phone,
		&cred.Password,
		&cred.OTP,
		&cred.OTPExpiresAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &cred, nil
}

// GetCredentialByIdentifier matches email case-insensitively or phone exactly.
func (s *DB) GetCredentialByIdentifier(ctx context.Context, identifier string) (_ *entity.UserCredential, err error) {
	ctx, span := s.startSpan(ctx, "GetCredentialByIdentifier")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT `+credentialColumns+`
		FROM auth_user_credentials
		WHERE lower(email) = lower($1) OR phone = $1`,
		identifier,
	)

	cred, err := s.scanCredential(row)
	if err != nil {
		return nil, err
	}

	return cred, nil
}

func (s *DB) GetCredentialByEmail(ctx context.Context, email string) (_ *entity.UserCredential, err error) {
	ctx, span := s.startSpan(ctx, "GetCredentialByEmail")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT `+credentialColumns+`
		FROM auth_user_credentials
		WHERE lower(email) = lower($1)`,
		email,
	)

	cred, err := s.scanCredential(row)
	if err != nil {
		return nil, err
	}

	return cred, nil
}
