package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/goauthn/internal/auth/entity"
	"github.com/shandysiswandi/goauthn/internal/pkg/clock"
	"github.com/shandysiswandi/goauthn/internal/pkg/config"
	"github.com/shandysiswandi/goauthn/internal/pkg/goerror"
	"github.com/shandysiswandi/goauthn/internal/pkg/goroutine"
	"github.com/shandysiswandi/goauthn/internal/pkg/hash"
	"github.com/shandysiswandi/goauthn/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthn/internal/pkg/mail"
	"github.com/shandysiswandi/goauthn/internal/pkg/otp"
	"github.com/shandysiswandi/goauthn/internal/pkg/ratelimit"
	"github.com/shandysiswandi/goauthn/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type OTPIssuedEvent struct {
	UserID  int64
	Email   string
	Purpose string
}

type PasswordChangedEvent struct {
	UserID int64
	Email  string
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
	PublishPasswordChanged(ctx context.Context, msg PasswordChangedEvent) error
}

type repoDB interface {
	GetCredentialByIdentifier(ctx context.Context, identifier string) (*entity.UserCredential, error)
	GetCredentialByEmail(ctx context.Context, email string) (*entity.UserCredential, error)

	SetCredentialOTP(ctx context.Context, id int64, digest string, expiresAt time.Time) error
	ConsumeCredentialOTP(ctx context.Context, id int64, digest string) error
	ResetCredentialPassword(ctx context.Context, id int64, newHash string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	hmac          hash.Hash
	otp           otp.Generator
	mailer        mail.Mail
	limiter       ratelimit.Limiter
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	HMAC          hash.Hash
	OTP           otp.Generator
	Mailer        mail.Mail
	Limiter       ratelimit.Limiter
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		hmac:          dep.HMAC,
		otp:           dep.OTP,
		mailer:        dep.Mailer,
		limiter:       dep.Limiter,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

// allowRate enforces the fixed-window limit for op+subject. A limiter outage
// fails open so Redis downtime does not lock everyone out.
func (s *Usecase) allowRate(ctx context.Context, op, subject string) error {
	ok, err := s.limiter.Allow(ctx, op+":"+strings.ToLower(subject))
	if err != nil {
		slog.WarnContext(ctx, "rate limiter unavailable", "op", op, "error", err)
		return nil
	}
	if !ok {
		slog.WarnContext(ctx, "rate limit exceeded", "op", op)
		return goerror.NewBusiness("too many attempts, please try again later", goerror.CodeTooManyRequest)
	}

	return nil
}

// issueOTP generates a fresh code, persists its digest with an expiry and
// emails the plain code to the user. The persisted digest is not rolled back
// when delivery fails; the caller surfaces the failure and the user simply
// re-requests.
func (s *Usecase) issueOTP(ctx context.Context, user *entity.UserCredential, subject, purpose string) error {
	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	expiresAt := s.clock.Now().Add(s.cfg.GetMinute("modules.auth.otp_ttl_minutes"))
	if err := s.repoDB.SetCredentialOTP(ctx, user.ID, string(digest), expiresAt); err != nil {
		slog.ErrorContext(ctx, "failed to repo set credential otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.mailer.Send(ctx, mail.Message{
		To:       []string{user.Email},
		Subject:  subject,
		TextBody: fmt.Sprintf("Your one-time code is %s. It expires shortly; if you did not request it, ignore this email.", code),
		HTMLBody: fmt.Sprintf("<p>Your one-time code is:</p><h2>%s</h2><p>It expires shortly. If you did not request it, ignore this email.</p>", code),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp email", "user_id", user.ID, "error", err)
		return goerror.NewBusiness("failed to deliver the verification code, please request a new one", goerror.CodeInternal)
	}

	s.publishAsync(ctx, "otp issued", func(ctx context.Context) error {
		return s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
			UserID:  user.ID,
			Email:   user.Email,
			Purpose: purpose,
		})
	})

	return nil
}

// checkOTP verifies a submitted code against the stored digest, constant-time
// via the HMAC comparison, and enforces expiry. It never mutates the record.
func (s *Usecase) checkOTP(ctx context.Context, user *entity.UserCredential, code string) error {
	if !user.HasOTP() {
		slog.WarnContext(ctx, "otp verify without outstanding challenge", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	if user.OTPExpiresAt != nil && s.clock.Now().After(*user.OTPExpiresAt) {
		slog.WarnContext(ctx, "otp verify after expiry", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	if !s.hmac.Verify(*user.OTP, code) {
		slog.WarnContext(ctx, "otp verify with wrong code", "user_id", user.ID)
		return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	return nil
}

// publishAsync runs an advisory publish outside the request path. Event loss
// is tolerated; the authoritative state already lives in the store.
func (s *Usecase) publishAsync(ctx context.Context, name string, fn func(ctx context.Context) error) {
	bg := instrument.SetCorrelationID(context.Background(), instrument.GetCorrelationID(ctx))
	s.goroutine.Go(bg, func(pCtx context.Context) error {
		if err := fn(pCtx); err != nil {
			slog.WarnContext(pCtx, "failed to publish "+name, "error", err)
		}

		return nil
	})
}
