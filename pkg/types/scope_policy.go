package types

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// PolicyAction enumerates the supported authorization actions enforced by the
// realm scope guard. Host applications can remap these actions to their own
// policies or ACL systems.
type PolicyAction string

const (
	PolicyActionProfileFieldsRead  PolicyAction = "profile_fields:read"
	PolicyActionProfileFieldsWrite PolicyAction = "profile_fields:write"
	PolicyActionProfileDataRead    PolicyAction = "profile_data:read"
	PolicyActionProfileDataWrite   PolicyAction = "profile_data:write"
	PolicyActionActivityRead       PolicyAction = "activity:read"
)

// PolicyCheck captures the authorization context for a single command/query.
type PolicyCheck struct {
	Actor    ActorRef
	Scope    ScopeFilter
	Action   PolicyAction
	TargetID uuid.UUID
}

// ScopeResolver resolves requested scopes into canonical tenant/org values
// based on the actor and host application rules.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, actor ActorRef, requested ScopeFilter) (ScopeFilter, error)
}

// ScopeResolverFunc adapts bare functions to ScopeResolver.
type ScopeResolverFunc func(ctx context.Context, actor ActorRef, requested ScopeFilter) (ScopeFilter, error)

// ResolveScope implements ScopeResolver.
func (f ScopeResolverFunc) ResolveScope(ctx context.Context, actor ActorRef, requested ScopeFilter) (ScopeFilter, error) {
	return f(ctx, actor, requested)
}

// AuthorizationPolicy governs whether an actor can access the requested scope
// for the supplied action.
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, check PolicyCheck) error
}

// AuthorizationPolicyFunc adapts bare functions to AuthorizationPolicy.
type AuthorizationPolicyFunc func(ctx context.Context, check PolicyCheck) error

// Authorize implements AuthorizationPolicy.
func (f AuthorizationPolicyFunc) Authorize(ctx context.Context, check PolicyCheck) error {
	return f(ctx, check)
}

var (
	// ErrUnauthorizedScope indicates the supplied scope is not visible to the
	// actor according to the configured authorization policy.
	ErrUnauthorizedScope = errors.New("go-profilefields: actor not authorized for scope")
	// ErrRealmAdminRequired indicates a definition write by a non-admin actor.
	ErrRealmAdminRequired = errors.New("go-profilefields: realm administrator required")
)

// PassthroughScopeResolver returns the requested scope as-is. This is used
// when host applications do not provide a custom resolver.
type PassthroughScopeResolver struct{}

// ResolveScope implements ScopeResolver.
func (PassthroughScopeResolver) ResolveScope(_ context.Context, _ ActorRef, requested ScopeFilter) (ScopeFilter, error) {
	return requested, nil
}

// AllowAllAuthorizationPolicy allows every action/scope combination.
type AllowAllAuthorizationPolicy struct{}

// Authorize implements AuthorizationPolicy.
func (AllowAllAuthorizationPolicy) Authorize(context.Context, PolicyCheck) error {
	return nil
}

// RealmAdminPolicy is the default policy for profile fields. Any actor in the
// realm may read definitions and their own data. Definition writes require a
// realm administrator; data writes require the actor to be the target user or
// an administrator.
type RealmAdminPolicy struct{}

// Authorize implements AuthorizationPolicy.
func (RealmAdminPolicy) Authorize(_ context.Context, check PolicyCheck) error {
	if check.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	switch check.Action {
	case PolicyActionProfileFieldsWrite:
		if !check.Actor.IsRealmAdmin() {
			return ErrRealmAdminRequired
		}
	case PolicyActionProfileDataWrite, PolicyActionProfileDataRead:
		if check.TargetID != uuid.Nil && check.TargetID != check.Actor.ID && !check.Actor.IsRealmAdmin() {
			return ErrUnauthorizedScope
		}
	case PolicyActionActivityRead:
		if !check.Actor.IsRealmAdmin() {
			return ErrRealmAdminRequired
		}
	}
	return nil
}
