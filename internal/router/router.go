package router

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "vet-care-reminders/docs"
	"vet-care-reminders/internal/adapters/auth/tokenverify"
	rdb "vet-care-reminders/internal/adapters/cache/redis"
	"vet-care-reminders/internal/adapters/messaging/natsbus"
	"vet-care-reminders/internal/adapters/messaging/whatsapp"
	mem "vet-care-reminders/internal/adapters/storage/memory"
	pg "vet-care-reminders/internal/adapters/storage/postgres"
	"vet-care-reminders/internal/config"
	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/domain/dashboard"
	"vet-care-reminders/internal/domain/directory"
	"vet-care-reminders/internal/domain/notify"
	"vet-care-reminders/internal/domain/reminders"
	"vet-care-reminders/internal/domain/templates"
	"vet-care-reminders/internal/middleware"
	"vet-care-reminders/internal/platform/logger"
	"vet-care-reminders/internal/platform/metrics"
	"vet-care-reminders/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

const natsConnectTimeout = 5 * time.Second

type Options struct {
	Config config.Config
	Log    logger.Logger

	// Opcionales; si vienen nil se arman desde Config.
	AuthVerifier auth.AuthVerifier
	DB           *sql.DB
	Gateway      notify.Gateway
	Guard        notify.SendGuard
	Publisher    notify.OutcomePublisher

	// Now permite fijar el reloj (tests).
	Now func() time.Time
}

// App es el grafo armado: el handler HTTP y los servicios que usa el CLI.
type App struct {
	Handler    http.Handler
	Calendar   *calendar.Calendar
	Care       *care.Service
	Ledger     *reminders.Service
	Directory  *directory.Service
	Dispatcher *notify.Dispatcher
	Metrics    *metrics.Metrics

	closers []func() error
}

// Close libera conexiones en orden inverso a su apertura.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// New arma repos, adapters y servicios según Config: sin DSN usa memoria, sin Redis
// un guard local, sin NATS no publica y sin token de WhatsApp usa el gateway de log.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	config.ApplyDefaults(&cfg)
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	app := &App{}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	loc, err := calendar.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule timezone: %w", err)
	}
	cal := calendar.New(loc, now)

	var (
		animalRepo   care.Repository
		reminderRepo reminders.Repository
		dirRepo      directory.Repository
	)

	db := opts.DB
	if db == nil && cfg.Database.DSN != "" {
		if cfg.Database.MigrateOnStart {
			if err := pg.RunMigrations(cfg.Database.DSN); err != nil {
				return fail(err)
			}
		}
		opened, err := pg.Open(cfg.Database.DSN)
		if err != nil {
			return fail(fmt.Errorf("open postgres: %w", err))
		}
		db = opened
		app.closers = append(app.closers, db.Close)
	}
	if db != nil {
		animalRepo = pg.NewAnimalsRepo(db)
		reminderRepo = pg.NewRemindersRepo(db)
		dirRepo = pg.NewDirectoryRepo(db)
		log.Info("storage: postgres", nil)
	} else {
		animalRepo = mem.NewAnimalRepo()
		reminderRepo = mem.NewReminderRepo()
		dirRepo = mem.NewDirectoryRepo()
		log.Info("storage: memory", nil)
	}

	guard := opts.Guard
	if guard == nil && cfg.Redis.Addr != "" {
		client, err := rdb.NewClient(rdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return fail(err)
		}
		g := rdb.NewGuard(client, cfg.Redis.ClaimTTL)
		app.closers = append(app.closers, g.Close)
		if err := g.Ping(ctx); err != nil {
			return fail(fmt.Errorf("redis ping: %w", err))
		}
		guard = g
	}
	if guard == nil {
		guard = notify.NewLocalGuard(cfg.Redis.ClaimTTL)
	}

	publisher := opts.Publisher
	if publisher == nil && cfg.NATS.URL != "" {
		conn, err := natsbus.Connect(cfg.NATS.URL, natsConnectTimeout)
		if err != nil {
			return fail(err)
		}
		app.closers = append(app.closers, func() error {
			natsbus.Close(conn)
			return nil
		})
		publisher = natsbus.NewPublisher(conn, cfg.NATS.SubjectPrefix)
	}

	gateway := opts.Gateway
	if gateway == nil && cfg.WhatsApp.Token != "" {
		g, err := whatsapp.NewGateway(whatsapp.Config{
			BaseURL:       cfg.WhatsApp.BaseURL,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			Token:         cfg.WhatsApp.Token,
			Timeout:       cfg.WhatsApp.Timeout,
			RatePerSecond: cfg.WhatsApp.RatePerSecond,
		})
		if err != nil {
			return fail(err)
		}
		gateway = g
	}
	if gateway == nil {
		log.Warn("whatsapp token not set; messages will only be logged", nil)
		gateway = whatsapp.NewLogGateway(log)
	}

	verifier := opts.AuthVerifier
	if verifier == nil && cfg.Auth.VerifyURL != "" {
		v, err := tokenverify.New(tokenverify.Config{
			VerifyURL: cfg.Auth.VerifyURL,
			APIKey:    cfg.Auth.APIKey,
			Timeout:   cfg.Auth.Timeout,
		})
		if err != nil {
			return fail(err)
		}
		verifier = v
	}

	// Services por módulo
	catalog := templates.DefaultCatalog()
	careSvc := care.NewService(animalRepo, cal, log)
	ledger := reminders.NewService(reminderRepo, cal)
	dirSvc := directory.NewService(dirRepo)
	dashSvc := dashboard.NewService(careSvc, ledger, cal)
	m := metrics.New()

	dispatcher := notify.NewDispatcher(notify.Deps{
		Care:      careSvc,
		Ledger:    ledger,
		Directory: dirSvc,
		Catalog:   catalog,
		Gateway:   gateway,
		Guard:     guard,
		Publisher: publisher,
		Metrics:   m,
		Calendar:  cal,
		Log:       log,
	}, notify.Config{
		Workers:            cfg.Schedule.Workers,
		SendTimeout:        cfg.Schedule.SendTimeout,
		DefaultCountryCode: cfg.Schedule.DefaultCountryCode,
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.AuthContext(verifier))
	r.Use(middleware.AccessLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	care.RegisterRoutes(r, careSvc)
	reminders.RegisterRoutes(r, ledger)
	directory.RegisterRoutes(r, dirSvc)
	templates.RegisterRoutes(r, catalog)
	notify.RegisterRoutes(r, dispatcher)
	dashboard.RegisterRoutes(r, dashSvc)

	app.Handler = r
	app.Calendar = cal
	app.Care = careSvc
	app.Ledger = ledger
	app.Directory = dirSvc
	app.Dispatcher = dispatcher
	app.Metrics = m
	return app, nil
}
