package authctx

import (
	"context"
	"strings"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

const (
	textCodeActorMissing = "ACTOR_CONTEXT_MISSING"
	textCodeActorInvalid = "ACTOR_CONTEXT_INVALID"
)

// ResolveActorContext returns the actor metadata stored by go-auth middleware
// or rebuilds it from JWT claims when the ContextEnricher hook was not
// configured.
func ResolveActorContext(ctx context.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, errors.New("go-profilefields: missing request context", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorMissing)
	}
	if actor, ok := auth.ActorFromContext(ctx); ok && actor != nil {
		return actor, nil
	}
	if claims, ok := auth.GetClaims(ctx); ok && claims != nil {
		if actor := auth.ActorContextFromClaims(claims); actor != nil {
			return actor, nil
		}
	}
	return nil, errors.New("go-profilefields: auth actor context not found on request", errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeActorMissing)
}

// ResolveActor returns the actor reference consumed by profile field
// commands together with the realm scope carried by the auth payload.
func ResolveActor(ctx context.Context) (types.ActorRef, types.ScopeFilter, error) {
	actorCtx, err := ResolveActorContext(ctx)
	if err != nil {
		return types.ActorRef{}, types.ScopeFilter{}, err
	}
	ref, err := ActorRefFromActorContext(actorCtx)
	if err != nil {
		return types.ActorRef{}, types.ScopeFilter{}, err
	}
	return ref, ScopeFromActorContext(actorCtx), nil
}

// ResolveRouterActor mirrors ResolveActor for router transports where
// middleware stores actor metadata directly in the router context.
func ResolveRouterActor(c router.Context) (types.ActorRef, types.ScopeFilter, error) {
	if c == nil {
		return types.ActorRef{}, types.ScopeFilter{}, errors.New("go-profilefields: missing router context", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorMissing)
	}
	if actor, ok := auth.ActorFromRouterContext(c); ok && actor != nil {
		ref, err := ActorRefFromActorContext(actor)
		if err != nil {
			return types.ActorRef{}, types.ScopeFilter{}, err
		}
		return ref, ScopeFromActorContext(actor), nil
	}
	return ResolveActor(c.Context())
}

// ActorRefFromActorContext converts the auth middleware payload into an
// ActorRef. The role falls back to the subject when the token carries none.
func ActorRefFromActorContext(actor *auth.ActorContext) (types.ActorRef, error) {
	if actor == nil {
		return types.ActorRef{}, errors.New("go-profilefields: actor context is nil", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	if strings.TrimSpace(actor.ActorID) == "" {
		return types.ActorRef{}, errors.New("go-profilefields: actor context missing actor_id", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	actorID, err := uuid.Parse(actor.ActorID)
	if err != nil {
		return types.ActorRef{}, errors.Wrap(err, errors.CategoryAuth, "go-profilefields: invalid actor_id on auth context").
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	ref := types.ActorRef{ID: actorID, Type: actor.Role}
	if ref.Type == "" && actor.Subject != "" {
		ref.Type = actor.Subject
	}
	return ref, nil
}

// ScopeFromActorContext builds the realm scope from the tenant/org
// identifiers stored by go-auth middleware.
func ScopeFromActorContext(actor *auth.ActorContext) types.ScopeFilter {
	if actor == nil {
		return types.ScopeFilter{}
	}
	return types.ScopeFilter{
		TenantID: parseUUID(actor.TenantID),
		OrgID:    parseUUID(actor.OrganizationID),
	}
}

func parseUUID(raw string) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
