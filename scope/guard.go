package scope

import (
	"context"

	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/google/uuid"
)

// Guard resolves the realm a command or query runs in and checks the actor
// may perform the action there.
type Guard interface {
	Enforce(ctx context.Context, actor types.ActorRef, requested types.ScopeFilter, action types.PolicyAction, target uuid.UUID) (types.ScopeFilter, error)
}

type homeRealmKey struct{}

// WithHomeRealm stores the realm the actor belongs to. Guards built by this
// package refuse to resolve into any other tenant or org.
func WithHomeRealm(ctx context.Context, realm types.ScopeFilter) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, homeRealmKey{}, realm.Clone())
}

// HomeRealm returns the realm stored by WithHomeRealm.
func HomeRealm(ctx context.Context) (types.ScopeFilter, bool) {
	if ctx == nil {
		return types.ScopeFilter{}, false
	}
	realm, ok := ctx.Value(homeRealmKey{}).(types.ScopeFilter)
	return realm, ok
}

// BindRealm pins requested to home. Empty tenant or org values are filled
// from home; values naming a different realm fail with
// types.ErrUnauthorizedScope. A zero home leaves requested untouched.
func BindRealm(home, requested types.ScopeFilter) (types.ScopeFilter, error) {
	bound := requested.Clone()
	if home.TenantID != uuid.Nil {
		if bound.TenantID != uuid.Nil && bound.TenantID != home.TenantID {
			return types.ScopeFilter{}, types.ErrUnauthorizedScope
		}
		bound.TenantID = home.TenantID
	}
	if home.OrgID != uuid.Nil {
		if bound.OrgID != uuid.Nil && bound.OrgID != home.OrgID {
			return types.ScopeFilter{}, types.ErrUnauthorizedScope
		}
		bound.OrgID = home.OrgID
	}
	return bound, nil
}

type realmGuard struct {
	resolver types.ScopeResolver
	policy   types.AuthorizationPolicy
}

// NewGuard builds a Guard from resolver and policy. Either may be nil.
func NewGuard(resolver types.ScopeResolver, policy types.AuthorizationPolicy) Guard {
	return realmGuard{resolver: resolver, policy: policy}
}

// Ensure returns g, or a guard without resolver or policy when g is nil.
func Ensure(g Guard) Guard {
	if g == nil {
		return realmGuard{}
	}
	return g
}

// NopGuard never blocks. It still honours a home realm found on the context.
func NopGuard() Guard {
	return realmGuard{}
}

func (g realmGuard) Enforce(ctx context.Context, actor types.ActorRef, requested types.ScopeFilter, action types.PolicyAction, target uuid.UUID) (types.ScopeFilter, error) {
	home, pinned := HomeRealm(ctx)
	realm := requested
	if pinned {
		bound, err := BindRealm(home, requested)
		if err != nil {
			return types.ScopeFilter{}, err
		}
		realm = bound
	}

	if g.resolver != nil {
		resolved, err := g.resolver.ResolveScope(ctx, actor, realm)
		if err != nil {
			return types.ScopeFilter{}, err
		}
		if pinned {
			// a resolver may widen an empty request but never leave the home realm
			if resolved, err = BindRealm(home, resolved); err != nil {
				return types.ScopeFilter{}, err
			}
		}
		realm = resolved
	}

	if g.policy == nil || action == "" {
		return realm, nil
	}
	err := g.policy.Authorize(ctx, types.PolicyCheck{
		Actor:    actor,
		Scope:    realm,
		Action:   action,
		TargetID: target,
	})
	if err != nil {
		return types.ScopeFilter{}, err
	}
	return realm, nil
}
