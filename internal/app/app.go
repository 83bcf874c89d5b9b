package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goauthn/internal/pkg/clock"
	"github.com/shandysiswandi/goauthn/internal/pkg/config"
	"github.com/shandysiswandi/goauthn/internal/pkg/goroutine"
	"github.com/shandysiswandi/goauthn/internal/pkg/hash"
	"github.com/shandysiswandi/goauthn/internal/pkg/instrument"
	"github.com/shandysiswandi/goauthn/internal/pkg/mail"
	"github.com/shandysiswandi/goauthn/internal/pkg/messaging"
	"github.com/shandysiswandi/goauthn/internal/pkg/otp"
	"github.com/shandysiswandi/goauthn/internal/pkg/router"
	"github.com/shandysiswandi/goauthn/internal/pkg/uid"
	"github.com/shandysiswandi/goauthn/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otp       otp.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
