package command

import (
	"context"
	"time"

	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/scope"
	"github.com/google/uuid"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeIDGenerator(gen types.IDGenerator) types.IDGenerator {
	if gen != nil {
		return gen
	}
	return types.UUIDGenerator{}
}

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func parseFieldID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func emitProfileFieldHook(ctx context.Context, hooks types.Hooks, event types.ProfileFieldEvent) {
	if hooks.AfterProfileFieldChange == nil {
		return
	}
	hooks.AfterProfileFieldChange(ctx, event)
}

func emitProfileDataHook(ctx context.Context, hooks types.Hooks, event types.ProfileDataEvent) {
	if hooks.AfterProfileDataChange == nil {
		return
	}
	hooks.AfterProfileDataChange(ctx, event)
}

func recordActivity(ctx context.Context, sink types.ActivitySink, hooks types.Hooks, logger types.Logger, record types.ActivityRecord) {
	if sink != nil {
		if err := sink.Log(ctx, record); err != nil {
			logger.Error("activity log failed", err, "verb", record.Verb, "object_id", record.ObjectID)
		}
	}
	if hooks.AfterActivity != nil {
		hooks.AfterActivity(ctx, record)
	}
}
