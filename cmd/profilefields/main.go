package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	profilefields "github.com/goliatone/go-profilefields"
	"github.com/goliatone/go-profilefields/activity"
	"github.com/goliatone/go-profilefields/cmd/profilefields/config"
	"github.com/goliatone/go-profilefields/migrations"
	"github.com/goliatone/go-profilefields/pkg/schema"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config  *gconfig.Container[*config.BaseConfig]
	bunDB   *bun.DB
	srv     router.Server[*fiber.App]
	logger  *glog.BaseLogger
	svc     *profilefields.Service
	schemas *schema.Registry
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("profilefields"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{
		Server: config.ServerConfig{
			Host:              "localhost",
			Port:              "8979",
			TrustActorHeaders: true,
		},
		Persistence: config.PersistenceConfig{
			Driver:         "sqlite",
			Server:         "file:profilefields.db?_journal_mode=WAL&cache=shared&_fk=1",
			PingTimeout:    5 * time.Second,
			OtelIdentifier: "go-profilefields",
		},
		Features: config.FeaturesConfig{ProfileFields: true},
		Cache:    config.CacheConfig{Enabled: true},
	}).WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		lgr.Error("config load failed", "error", err)
		os.Exit(1)
	}

	notifier := schema.NewNotifier()
	app := &App{
		config: cfg,
		logger: lgr,
		schemas: schema.NewRegistry(
			schema.WithPublisher(notifier),
			schema.WithInfo(router.OpenAPIInfo{
				Title:       "Profile Field Admin Schemas",
				Version:     "1.0.0",
				Description: "CRUD schemas for custom profile fields and their audit trail",
			}),
			schema.WithTags("admin", "profile_fields"),
		),
	}
	notifier.Register(func(_ context.Context, _ uuid.UUID, metadata map[string]any) {
		app.GetLogger("schema").Info("schema change published", "event", metadata["event"])
	})

	steps := []func(context.Context, *App) error{
		WithPersistence,
		WithHTTPServer,
		WithProfileFieldService,
		func(_ context.Context, app *App) error { return RegisterJSONRoutes(app) },
		func(_ context.Context, app *App) error { return RegisterAPIRoutes(app) },
	}
	for _, step := range steps {
		if err := step(ctx, app); err != nil {
			lgr.Error("startup failed", "error", err)
			os.Exit(1)
		}
	}

	serverCfg := app.Config().GetServer()
	addr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	lgr.Info("starting server", "addr", addr)
	app.srv.Serve(addr)

	WaitExitSignal()
}

func WithHTTPServer(_ context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
			AppName:       "go-profilefields",
		})
	})
	srv.Router().WithLogger(app.GetLogger("router"))
	app.srv = srv
	return nil
}

func WithPersistence(ctx context.Context, app *App) error {
	cfg := app.Config().GetPersistence()
	dsn := cfg.GetServer()
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return err
	}

	persistence.RegisterModel((*profilefield.FieldRecord)(nil))
	persistence.RegisterModel((*profilefield.ValueRecord)(nil))
	persistence.RegisterModel((*activity.LogEntry)(nil))

	bunClient, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return err
	}
	bunClient.SetLogger(app.GetLogger("persistence"))

	for _, source := range migrations.Sources() {
		app.GetLogger("persistence").Debug("registering migrations", "source", source.Name)
		bunClient.RegisterDialectMigrations(
			source.FS,
			persistence.WithDialectSourceLabel("."),
			persistence.WithValidationTargets("postgres", "sqlite"),
		)
	}
	if err := bunClient.ValidateDialects(ctx); err != nil {
		app.GetLogger("persistence").Warn("dialect validation failed", "error", err)
	}
	if err := bunClient.Migrate(ctx); err != nil {
		return err
	}
	if report := bunClient.Report(); report != nil && !report.IsZero() {
		app.GetLogger("persistence").Info("migrations applied", "report", report.String())
	}

	app.bunDB = bunClient.DB()
	return migrations.ValidateSchema(ctx, app.bunDB.DB, "sqlite")
}

func WithProfileFieldService(ctx context.Context, app *App) error {
	fields, err := profilefield.NewRepository(profilefield.RepositoryConfig{
		DB: app.bunDB,
	}, profilefield.WithCache(app.Config().Cache.Enabled))
	if err != nil {
		return err
	}
	activityRepo, err := activity.NewRepository(activity.RepositoryConfig{
		DB: app.bunDB,
	})
	if err != nil {
		return err
	}

	hooksLogger := app.GetLogger("hooks")
	refreshSchemas := app.schemas.FieldChangeHook()
	svc := profilefields.New(profilefields.Config{
		ProfileFieldRepository: fields,
		ActivitySink:           activityRepo,
		ActivityRepository:     activityRepo,
		FeatureGate:            configGate{cfg: app.Config().Features},
		ActivityMasker:         activity.DefaultMasker(),
		Hooks: types.Hooks{
			AfterProfileFieldChange: func(ctx context.Context, event types.ProfileFieldEvent) {
				hooksLogger.Info("profile field changed",
					"action", event.Action,
					"field_id", event.FieldID,
					"actor_id", event.ActorID)
				refreshSchemas(ctx, event)
			},
			AfterProfileDataChange: func(_ context.Context, event types.ProfileDataEvent) {
				hooksLogger.Debug("profile data changed",
					"user_id", event.UserID,
					"values", len(event.Values))
			},
		},
		Logger: &loggerAdapter{app.GetLogger("profilefields")},
	})
	if err := svc.HealthCheck(ctx); err != nil {
		return err
	}
	app.svc = svc
	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(
		ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
