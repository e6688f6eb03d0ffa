package main

import (
	"github.com/goliatone/go-crud"
	"github.com/goliatone/go-profilefields/activity"
	"github.com/goliatone/go-profilefields/crudguard"
	"github.com/goliatone/go-profilefields/crudsvc"
	"github.com/goliatone/go-profilefields/httpapi"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/scope"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterJSONRoutes mounts the realm profile field endpoints.
func RegisterJSONRoutes(app *App) error {
	handlers, err := httpapi.NewHandlers(httpapi.ConfigFromService(app.svc))
	if err != nil {
		return err
	}
	httpapi.Register(app.srv.Router(), handlers, app.middleware()...)
	app.GetLogger("api").Info("JSON routes registered", "prefix", "/json")
	return nil
}

// RegisterAPIRoutes mounts the go-crud admin controllers under /api.
func RegisterAPIRoutes(app *App) error {
	api := app.srv.Router().Group("/api")
	for _, mw := range app.middleware() {
		api.Use(mw)
	}
	apiAdapter := crud.NewGoRouterAdapter(api)
	commands := app.svc.Commands()
	queries := app.svc.Queries()
	scopeGuard := app.svc.ScopeGuard()

	fieldGuard, err := newGuardAdapter(app, scopeGuard, crudguard.ProfileFieldPolicyMap(), "profile_fields")
	if err != nil {
		return err
	}
	fieldService := crudsvc.NewProfileFieldService(crudsvc.ProfileFieldServiceConfig{
		Guard:  fieldGuard,
		Create: commands.CreateProfileField,
		Update: commands.UpdateProfileField,
		Delete: commands.DeleteProfileField,
		List:   queries.ProfileFields,
	}, crudsvc.WithLogger(&loggerAdapter{app.GetLogger("svc:profile_fields")}))
	fieldController := crud.NewController(profilefield.NewFieldRecordRepository(app.bunDB),
		crud.WithService(fieldService),
		crud.WithRouteConfig[*profilefield.FieldRecord](crud.RouteConfig{
			Operations: map[crud.CrudOperation]crud.RouteOptions{
				crud.OpUpdateBatch: {Enabled: crud.BoolPtr(false)},
				crud.OpDeleteBatch: {Enabled: crud.BoolPtr(false)},
			},
		}),
	)
	fieldController.RegisterRoutes(apiAdapter)
	app.schemas.Register(fieldController)

	activityGuard, err := newGuardAdapter(app, scopeGuard,
		crudguard.DefaultPolicyMap(types.PolicyActionActivityRead, types.PolicyActionActivityRead), "activity")
	if err != nil {
		return err
	}
	activityService := crudsvc.NewActivityService(crudsvc.ActivityServiceConfig{
		Guard:     activityGuard,
		FeedQuery: queries.ActivityFeed,
	}, crudsvc.WithLogger(&loggerAdapter{app.GetLogger("svc:activity")}))
	activityController := crud.NewController(createActivityRepository(app.bunDB),
		crud.WithService(activityService),
		crud.WithRouteConfig[*activity.LogEntry](crud.RouteConfig{
			Operations: map[crud.CrudOperation]crud.RouteOptions{
				crud.OpCreate:      {Enabled: crud.BoolPtr(false)},
				crud.OpUpdate:      {Enabled: crud.BoolPtr(false)},
				crud.OpDelete:      {Enabled: crud.BoolPtr(false)},
				crud.OpCreateBatch: {Enabled: crud.BoolPtr(false)},
				crud.OpUpdateBatch: {Enabled: crud.BoolPtr(false)},
				crud.OpDeleteBatch: {Enabled: crud.BoolPtr(false)},
			},
		}),
	)
	activityController.RegisterRoutes(apiAdapter)
	app.schemas.Register(activityController)

	app.srv.Router().Get("/admin/schemas", app.schemas.Handler())

	app.GetLogger("api").Info("API routes registered", "prefix", "/api")
	return nil
}

func createActivityRepository(db *bun.DB) repository.Repository[*activity.LogEntry] {
	handlers := repository.ModelHandlers[*activity.LogEntry]{
		NewRecord: func() *activity.LogEntry {
			return &activity.LogEntry{}
		},
		GetID: func(r *activity.LogEntry) uuid.UUID {
			return r.ID
		},
		SetID: func(r *activity.LogEntry, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "verb"
		},
	}
	return repository.NewRepository(db, handlers)
}

func newGuardAdapter(app *App, guard scope.Guard, policy map[crud.CrudOperation]types.PolicyAction, name string) (*crudguard.Adapter, error) {
	return crudguard.NewAdapter(crudguard.Config{
		Guard:     guard,
		Logger:    &loggerAdapter{app.GetLogger("guard:" + name)},
		PolicyMap: policy,
	})
}

func (app *App) middleware() []router.MiddlewareFunc {
	if !app.Config().GetServer().TrustActorHeaders {
		return nil
	}
	return []router.MiddlewareFunc{actorHeaders()}
}
