package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
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
	"github.com/shandysiswandi/goauthn/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepoDB struct {
	mu   sync.Mutex
	user *entity.UserCredential

	// when set, reads return this snapshot instead of the live record
	staleUser *entity.UserCredential

	setOTPCalls   int
	consumeCalls  int
	resetCalls    int
	setOTPErr     error
	consumeErr    error
	resetErr      error
	lastDigest    string
	lastExpiresAt time.Time
}

func (f *fakeRepoDB) GetCredentialByIdentifier(_ context.Context, identifier string) (*entity.UserCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.user == nil {
		return nil, goerror.ErrNotFound
	}
	if !strings.EqualFold(identifier, f.user.Email) && identifier != f.user.Phone {
		return nil, goerror.ErrNotFound
	}

	cp := *f.user
	return &cp, nil
}

func (f *fakeRepoDB) GetCredentialByEmail(_ context.Context, email string) (*entity.UserCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.user == nil || !strings.EqualFold(email, f.user.Email) {
		return nil, goerror.ErrNotFound
	}

	if f.staleUser != nil {
		cp := *f.staleUser
		return &cp, nil
	}

	cp := *f.user
	return &cp, nil
}

func (f *fakeRepoDB) SetCredentialOTP(_ context.Context, id int64, digest string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setOTPErr != nil {
		return f.setOTPErr
	}

	f.setOTPCalls++
	f.lastDigest = digest
	f.lastExpiresAt = expiresAt
	f.user.OTP = &digest
	f.user.OTPExpiresAt = &expiresAt
	return nil
}

func (f *fakeRepoDB) ConsumeCredentialOTP(_ context.Context, id int64, digest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.consumeErr != nil {
		return f.consumeErr
	}
	if f.user == nil || f.user.OTP == nil || *f.user.OTP != digest {
		return goerror.ErrNotFound
	}

	f.consumeCalls++
	f.user.OTP = nil
	f.user.OTPExpiresAt = nil
	return nil
}

func (f *fakeRepoDB) ResetCredentialPassword(_ context.Context, id int64, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resetErr != nil {
		return f.resetErr
	}

	f.resetCalls++
	f.user.Password = newHash
	f.user.OTP = nil
	f.user.OTPExpiresAt = nil
	return nil
}

type fakeMessaging struct {
	mu        sync.Mutex
	otpIssued []OTPIssuedEvent
	pwChanged []PasswordChangedEvent
}

func (f *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otpIssued = append(f.otpIssued, msg)
	return nil
}

func (f *fakeMessaging) PublishPasswordChanged(_ context.Context, msg PasswordChangedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pwChanged = append(f.pwChanged, msg)
	return nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) Close() error { return nil }

type fakeLimiter struct {
	mu    sync.Mutex
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *Usecase
	repo      *fakeRepoDB
	msg       *fakeMessaging
	mailer    *fakeMailer
	limiter   *fakeLimiter
	hmac      hash.Hash
	goroutine *goroutine.Manager
}

func newFixture(t *testing.T, repo *fakeRepoDB) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  auth:\n    otp_ttl_minutes: 5\n"))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	f := &fixture{
		repo:      repo,
		msg:       &fakeMessaging{},
		mailer:    &fakeMailer{},
		limiter:   &fakeLimiter{allow: true},
		hmac:      hash.NewHMACSHA256Hash("test-key"),
		goroutine: goroutine.NewManager(4),
	}

	f.uc = New(Dependency{
		RepoDB:        f.repo,
		RepoMessaging: f.msg,
		Validator:     v10,
		Config:        cfg,
		Bcrypt:        hash.NewBcryptHash(bcrypt.MinCost),
		HMAC:          f.hmac,
		OTP:           otp.NewNumeric(),
		Mailer:        f.mailer,
		Limiter:       f.limiter,
		Clock:         clock.Fixed{At: testNow},
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.goroutine,
	})

	return f
}

// flush waits for async event publishes scheduled by the operation under test.
func (f *fixture) flush(t *testing.T) {
	t.Helper()
	require.NoError(t, f.goroutine.Wait())
}

func testUser(t *testing.T, password string) *entity.UserCredential {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &entity.UserCredential{
		ID:       77,
		Email:    "user@example.com",
		Phone:    "+15550001",
		Password: string(hashed),
	}
}

func assertCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, code, gerr.Code())
}

func TestLogin(t *testing.T) {
	t.Run("success by email issues one otp and one delivery", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		out, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "User@Example.com",
			Password:   "secret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", out.Email)

		assert.Equal(t, 1, f.repo.setOTPCalls)
		assert.Equal(t, testNow.Add(5*time.Minute), f.repo.lastExpiresAt)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, []string{"user@example.com"}, f.mailer.sent[0].To)
		assert.Equal(t, "Your OTP Code", f.mailer.sent[0].Subject)

		f.flush(t)
		require.Len(t, f.msg.otpIssued, 1)
		assert.Equal(t, int64(77), f.msg.otpIssued[0].UserID)
		assert.Equal(t, "login", f.msg.otpIssued[0].Purpose)
	})

	t.Run("success by phone", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		out, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "+15550001",
			Password:   "secret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", out.Email)
		assert.Equal(t, 1, f.repo.setOTPCalls)
	})

	t.Run("short provisioned password still authenticates", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "pin123")})

		out, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "user@example.com",
			Password:   "pin123",
		})
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", out.Email)
		assert.Equal(t, 1, f.repo.setOTPCalls)
	})

	t.Run("stored otp digest matches the mailed code", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "user@example.com",
			Password:   "secret-pass",
		})
		require.NoError(t, err)

		code := extractCode(t, f.mailer.sent[0].TextBody)
		assert.True(t, otp.IsWellFormed(code))
		assert.True(t, f.hmac.Verify(f.repo.lastDigest, code))
	})

	t.Run("reissuance overwrites prior code", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		in := LoginInput{Identifier: "user@example.com", Password: "secret-pass"}
		_, err := f.uc.Login(context.Background(), in)
		require.NoError(t, err)
		first := f.repo.lastDigest

		_, err = f.uc.Login(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, 2, f.repo.setOTPCalls)
		if first == f.repo.lastDigest {
			// one-in-900000 collision; the mailed codes must then be equal too
			assert.Equal(t, extractCode(t, f.mailer.sent[0].TextBody), extractCode(t, f.mailer.sent[1].TextBody))
		}
		assert.Equal(t, *f.repo.user.OTP, f.repo.lastDigest)
	})

	t.Run("wrong password never touches store or mailer", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "user@example.com",
			Password:   "wrong-pass-1",
		})
		assertCode(t, err, goerror.CodeUnauthorized)
		assert.Zero(t, f.repo.setOTPCalls)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("unknown identifier maps to same unauthorized failure", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{})

		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "missing@example.com",
			Password:   "whatever-pass",
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("delivery failure keeps persisted otp", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		f.mailer.err = assert.AnError

		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "user@example.com",
			Password:   "secret-pass",
		})
		assertCode(t, err, goerror.CodeInternal)
		assert.Equal(t, 1, f.repo.setOTPCalls)
		assert.NotNil(t, f.repo.user.OTP)
	})

	t.Run("rate limited", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		f.limiter.allow = false

		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "user@example.com",
			Password:   "secret-pass",
		})
		assertCode(t, err, goerror.CodeTooManyRequest)
		assert.Zero(t, f.repo.setOTPCalls)
	})

	t.Run("limiter outage fails open", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		f.limiter.allow = false
		f.limiter.err = assert.AnError

		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "user@example.com",
			Password:   "secret-pass",
		})
		require.NoError(t, err)
	})

	t.Run("validation failure", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		_, err := f.uc.Login(context.Background(), LoginInput{Identifier: "", Password: "short"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})
}

func TestLoginVerify(t *testing.T) {
	issue := func(t *testing.T, f *fixture) string {
		t.Helper()
		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: "user@example.com",
			Password:   "secret-pass",
		})
		require.NoError(t, err)
		return extractCode(t, f.mailer.sent[len(f.mailer.sent)-1].TextBody)
	}

	t.Run("success consumes the code", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		code := issue(t, f)

		err := f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "User@Example.com",
			OTP:   code,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, f.repo.consumeCalls)
		assert.Nil(t, f.repo.user.OTP)

		err = f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "user@example.com",
			OTP:   code,
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("concurrent verifies spend the code once", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		code := issue(t, f)

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- f.uc.LoginVerify(context.Background(), LoginVerifyInput{
					Email: "user@example.com",
					OTP:   code,
				})
			}()
		}
		wg.Wait()
		close(errs)

		var succeeded int
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assertCode(t, err, goerror.CodeUnauthorized)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, f.repo.consumeCalls)
	})

	t.Run("consumed code fails even when the read was stale", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		code := issue(t, f)
		snapshot := *f.repo.user

		err := f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "user@example.com",
			OTP:   code,
		})
		require.NoError(t, err)

		// a second verify that read the record before the first one cleared it
		f.repo.staleUser = &snapshot
		err = f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "user@example.com",
			OTP:   code,
		})
		assertCode(t, err, goerror.CodeUnauthorized)
		assert.Equal(t, 1, f.repo.consumeCalls)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		code := issue(t, f)

		wrong := "111111"
		if wrong == code {
			wrong = "222222"
		}

		err := f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "user@example.com",
			OTP:   wrong,
		})
		assertCode(t, err, goerror.CodeUnauthorized)
		assert.Zero(t, f.repo.consumeCalls)
	})

	t.Run("expired code", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		code := issue(t, f)

		past := testNow.Add(-time.Second)
		f.repo.user.OTPExpiresAt = &past

		err := f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "user@example.com",
			OTP:   code,
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("no outstanding challenge", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		err := f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "user@example.com",
			OTP:   "123456",
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{})

		err := f.uc.LoginVerify(context.Background(), LoginVerifyInput{
			Email: "missing@example.com",
			OTP:   "123456",
		})
		assertCode(t, err, goerror.CodeNotFound)
	})
}

func TestPasswordForgot(t *testing.T) {
	t.Run("success uses reset template and purpose", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "user@example.com"})
		require.NoError(t, err)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "Password Reset OTP", f.mailer.sent[0].Subject)
		assert.Equal(t, 1, f.repo.setOTPCalls)

		f.flush(t)
		require.Len(t, f.msg.otpIssued, 1)
		assert.Equal(t, "password_reset", f.msg.otpIssued[0].Purpose)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{})

		err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "missing@example.com"})
		assertCode(t, err, goerror.CodeNotFound)
		assert.Empty(t, f.mailer.sent)
	})
}

func TestPasswordForgotVerify(t *testing.T) {
	t.Run("valid code is not consumed", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		require.NoError(t, f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "user@example.com"}))
		code := extractCode(t, f.mailer.sent[0].TextBody)

		err := f.uc.PasswordForgotVerify(context.Background(), PasswordForgotVerifyInput{
			Email: "user@example.com",
			OTP:   code,
		})
		require.NoError(t, err)
		assert.Zero(t, f.repo.consumeCalls)
		assert.NotNil(t, f.repo.user.OTP)

		// the check can be repeated while the code is live
		err = f.uc.PasswordForgotVerify(context.Background(), PasswordForgotVerifyInput{
			Email: "user@example.com",
			OTP:   code,
		})
		require.NoError(t, err)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		require.NoError(t, f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "user@example.com"}))

		code := extractCode(t, f.mailer.sent[0].TextBody)
		wrong := "111111"
		if wrong == code {
			wrong = "222222"
		}

		err := f.uc.PasswordForgotVerify(context.Background(), PasswordForgotVerifyInput{
			Email: "user@example.com",
			OTP:   wrong,
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{})

		err := f.uc.PasswordForgotVerify(context.Background(), PasswordForgotVerifyInput{
			Email: "missing@example.com",
			OTP:   "123456",
		})
		assertCode(t, err, goerror.CodeNotFound)
	})
}

func TestPasswordReset(t *testing.T) {
	t.Run("success replaces password and clears otp", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})
		require.NoError(t, f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "user@example.com"}))
		require.NotNil(t, f.repo.user.OTP)

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "User@Example.com",
			NewPassword: "brand-new-pass",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, f.repo.resetCalls)
		assert.Nil(t, f.repo.user.OTP)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(f.repo.user.Password), []byte("brand-new-pass")))

		f.flush(t)
		require.Len(t, f.msg.pwChanged, 1)
		assert.Equal(t, int64(77), f.msg.pwChanged[0].UserID)
	})

	t.Run("commit works without a prior verify call", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "user@example.com",
			NewPassword: "brand-new-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, f.repo.resetCalls)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{})

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "missing@example.com",
			NewPassword: "brand-new-pass",
		})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("short password rejected", func(t *testing.T) {
		f := newFixture(t, &fakeRepoDB{user: testUser(t, "secret-pass")})

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "user@example.com",
			NewPassword: "short",
		})
		assertCode(t, err, goerror.CodeInvalidInput)
		assert.Zero(t, f.repo.resetCalls)
	})
}

// extractCode pulls the 6-digit code out of the otp email body.
func extractCode(t *testing.T, body string) string {
	t.Helper()

	for _, word := range strings.Fields(body) {
		word = strings.TrimSuffix(word, ".")
		if otp.IsWellFormed(word) {
			return word
		}
	}

	t.Fatalf("no otp code found in body: %q", body)
	return ""
}
