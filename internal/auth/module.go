package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goauthn/internal/auth/inbound"
	"github.com/shandysiswandi/goauthn/internal/auth/outbound/db"
	"github.com/shandysiswandi/goauthn/internal/auth/outbound/mq"
	"github.com/shandysiswandi/goauthn/internal/auth/usecase"
	"github.com/shandysiswandi/goauthn/internal/pkg/clock"
	"github.com/shandysiswandi/goauthn/internal/pkg/config"
	"github.com/shandysiswandi/goauthn/internal/pkg/goroutine"
	"github.com/shandysiswandi/goauthn/internal/pkg/hash"
	"github.com/shandysiswandi/goauthn/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthn/internal/pkg/mail"
	"github.com/shandysiswandi/goauthn/internal/pkg/messaging"
	"github.com/shandysiswandi/goauthn/internal/pkg/otp"
	"github.com/shandysiswandi/goauthn/internal/pkg/ratelimit"
	"github.com/shandysiswandi/goauthn/internal/pkg/router"
	"github.com/shandysiswandi/goauthn/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	limiter := ratelimit.NewFixedWindow(
		dep.CacheConn,
		dep.Config.GetInt64("modules.auth.rate_limit.max_attempts"),
		dep.Config.GetMinute("modules.auth.rate_limit.window_minutes"),
	)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		HMAC:          dep.HMAC,
		OTP:           dep.OTP,
		Mailer:        dep.Mail,
		Limiter:       limiter,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
