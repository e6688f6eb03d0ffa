package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-profilefields/command"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/query"
	"github.com/goliatone/go-profilefields/scope"
)

// Service is the entry point for go-profilefields. It wires the field store,
// the activity trail, hooks, and command/query facades supplied by the host
// application.
type Service struct {
	cfg          Config
	commands     Commands
	queries      Queries
	activityRepo types.ActivityRepository
	scopeGuard   scope.Guard
}

// Commands exposes the service command handlers.
type Commands struct {
	CreateProfileField *command.CreateProfileFieldCommand
	UpdateProfileField *command.UpdateProfileFieldCommand
	DeleteProfileField *command.DeleteProfileFieldCommand
	UpdateProfileData  *command.UpdateProfileDataCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ProfileFields *query.ProfileFieldListQuery
	ProfileData   *query.ProfileDataQuery
	ActivityFeed  *query.ActivityFeedQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB backed stores, cached repositories, hooks, etc.).
// AuthorizationPolicy defaults to types.RealmAdminPolicy.
type Config struct {
	ProfileFieldRepository types.ProfileFieldRepository
	ActivitySink           types.ActivitySink
	ActivityRepository     types.ActivityRepository
	Hooks                  types.Hooks
	Clock                  types.Clock
	IDGenerator            types.IDGenerator
	Logger                 types.Logger
	FeatureGate            featuregate.FeatureGate
	ActivityMasker         *masker.Masker
	ScopeResolver          types.ScopeResolver
	AuthorizationPolicy    types.AuthorizationPolicy
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	actRepo := norm.ActivityRepository
	if actRepo == nil {
		if sinkRepo, ok := norm.ActivitySink.(types.ActivityRepository); ok {
			actRepo = sinkRepo
		}
	}

	s := &Service{
		cfg:          norm,
		activityRepo: actRepo,
		scopeGuard:   scope.Ensure(scope.NewGuard(norm.ScopeResolver, norm.AuthorizationPolicy)),
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.ScopeResolver == nil {
		cfg.ScopeResolver = types.PassthroughScopeResolver{}
	}
	if cfg.AuthorizationPolicy == nil {
		cfg.AuthorizationPolicy = types.RealmAdminPolicy{}
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.ProfileFieldRepository != nil &&
		s.cfg.ActivitySink != nil &&
		s.activityRepo != nil
}

// HealthCheck surfaces the first missing dependency.
func (s *Service) HealthCheck(context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if s.cfg.ProfileFieldRepository == nil {
		return types.ErrMissingProfileFieldRepository
	}
	if s.cfg.ActivitySink == nil {
		return types.ErrMissingActivitySink
	}
	if s.activityRepo == nil {
		return types.ErrMissingActivityRepository
	}
	return nil
}

// ScopeGuard exposes the guard instance used internally so transports can
// reuse the same resolver/policy combination for HTTP adapters.
func (s *Service) ScopeGuard() scope.Guard {
	if s == nil {
		return scope.NopGuard()
	}
	return scope.Ensure(s.scopeGuard)
}

// ActivitySink returns the configured sink so transports can emit activity
// records for auxiliary workflows.
func (s *Service) ActivitySink() types.ActivitySink {
	if s == nil {
		return nil
	}
	return s.cfg.ActivitySink
}

// Logger returns the configured logger.
func (s *Service) Logger() types.Logger {
	if s == nil {
		return types.NopLogger{}
	}
	return s.cfg.Logger
}

func (s *Service) buildCommands() Commands {
	cfg := command.ProfileFieldCommandConfig{
		Repository:  s.cfg.ProfileFieldRepository,
		Activity:    s.cfg.ActivitySink,
		Hooks:       s.cfg.Hooks,
		Clock:       s.cfg.Clock,
		IDGenerator: s.cfg.IDGenerator,
		Logger:      s.cfg.Logger,
		FeatureGate: s.cfg.FeatureGate,
		ScopeGuard:  s.scopeGuard,
	}
	return Commands{
		CreateProfileField: command.NewCreateProfileFieldCommand(cfg),
		UpdateProfileField: command.NewUpdateProfileFieldCommand(cfg),
		DeleteProfileField: command.NewDeleteProfileFieldCommand(cfg),
		UpdateProfileData:  command.NewUpdateProfileDataCommand(cfg),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		ProfileFields: query.NewProfileFieldListQuery(s.cfg.ProfileFieldRepository, s.scopeGuard),
		ProfileData:   query.NewProfileDataQuery(s.cfg.ProfileFieldRepository, s.scopeGuard),
		ActivityFeed:  query.NewActivityFeedQuery(s.activityRepo, s.scopeGuard, query.WithActivityMasker(s.cfg.ActivityMasker)),
	}
}
