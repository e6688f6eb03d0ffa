package command

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-profilefields/activity"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/scope"
)

// ProfileFieldCommandConfig wires dependencies shared by the profile field
// commands.
type ProfileFieldCommandConfig struct {
	Repository  types.ProfileFieldRepository
	Activity    types.ActivitySink
	Hooks       types.Hooks
	Clock       types.Clock
	IDGenerator types.IDGenerator
	Logger      types.Logger
	FeatureGate featuregate.FeatureGate
	ScopeGuard  scope.Guard
}

type profileFieldDeps struct {
	repo   types.ProfileFieldRepository
	sink   types.ActivitySink
	hooks  types.Hooks
	clock  types.Clock
	idGen  types.IDGenerator
	logger types.Logger
	gate   featuregate.FeatureGate
	guard  scope.Guard
}

func newProfileFieldDeps(cfg ProfileFieldCommandConfig) profileFieldDeps {
	return profileFieldDeps{
		repo:   cfg.Repository,
		sink:   cfg.Activity,
		hooks:  cfg.Hooks,
		clock:  safeClock(cfg.Clock),
		idGen:  safeIDGenerator(cfg.IDGenerator),
		logger: safeLogger(cfg.Logger),
		gate:   cfg.FeatureGate,
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

func (d profileFieldDeps) fieldChanged(ctx context.Context, action string, actor types.ActorRef, field types.ProfileField) {
	occurred := now(d.clock)
	emitProfileFieldHook(ctx, d.hooks, types.ProfileFieldEvent{
		FieldID:    field.ID,
		Action:     action,
		ActorID:    actor.ID,
		Scope:      field.Scope,
		OccurredAt: occurred,
		Field:      field,
	})
	record := activity.BuildRecord(actor, field.Scope, action, activity.ObjectTypeProfileField, field.ID.String(), map[string]any{
		"name":       field.Name,
		"field_type": int(field.Type),
	})
	record.OccurredAt = occurred
	recordActivity(ctx, d.sink, d.hooks, d.logger, record)
}
