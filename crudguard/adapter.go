package crudguard

import (
	"errors"
	"fmt"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-profilefields/pkg/authctx"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/scope"
	"github.com/google/uuid"
)

const (
	textCodeGuardFailed    = "SCOPE_ENFORCEMENT_FAILED"
	textCodeMissingPolicy  = "SCOPE_POLICY_MISSING"
	textCodeMissingContext = "CONTEXT_MISSING"
)

// RealmExtractor returns the realm the calling actor belongs to. Records and
// queries handled by the admin controllers are pinned to it.
type RealmExtractor func(ctx crud.Context, actor *auth.ActorContext) (types.ScopeFilter, error)

// Config drives Adapter construction.
type Config struct {
	Guard          scope.Guard
	Logger         types.Logger
	PolicyMap      map[crud.CrudOperation]types.PolicyAction
	RealmExtractor RealmExtractor
	FallbackAction types.PolicyAction
}

// Adapter authorizes go-crud operations on profile field resources.
type Adapter struct {
	guard          scope.Guard
	logger         types.Logger
	homeRealm      RealmExtractor
	policyMap      map[crud.CrudOperation]types.PolicyAction
	fallbackAction types.PolicyAction
}

// GuardInput describes one controller call. Scope carries the realm named by
// the request body, if any.
type GuardInput struct {
	Context   crud.Context
	Operation crud.CrudOperation
	TargetID  uuid.UUID
	Scope     types.ScopeFilter
}

// GuardResult is the authorized actor and the realm to operate in.
type GuardResult struct {
	Actor     types.ActorRef
	Scope     types.ScopeFilter
	Operation crud.CrudOperation
}

// ActorRealm reads tenant and org from the go-auth actor context.
func ActorRealm(_ crud.Context, actor *auth.ActorContext) (types.ScopeFilter, error) {
	return authctx.ScopeFromActorContext(actor), nil
}

// NewAdapter validates cfg and builds an Adapter.
func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.Guard == nil {
		return nil, goerrors.New("go-profilefields: scope guard is required", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeGuardFailed)
	}
	if len(cfg.PolicyMap) == 0 && cfg.FallbackAction == "" {
		return nil, goerrors.New("go-profilefields: policy map or fallback action must be provided", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingPolicy)
	}

	adapter := &Adapter{
		guard:          cfg.Guard,
		logger:         cfg.Logger,
		homeRealm:      cfg.RealmExtractor,
		policyMap:      clonePolicyMap(cfg.PolicyMap),
		fallbackAction: cfg.FallbackAction,
	}
	if adapter.homeRealm == nil {
		adapter.homeRealm = ActorRealm
	}
	if adapter.logger == nil {
		adapter.logger = types.NopLogger{}
	}
	return adapter, nil
}

// Enforce resolves the actor, pins the requested realm to the actor's own and
// runs the guard with the action mapped from the operation. A request naming
// another tenant or org is refused before the guard runs.
func (a *Adapter) Enforce(in GuardInput) (GuardResult, error) {
	if in.Context == nil {
		return GuardResult{}, goerrors.New("go-profilefields: crudguard requires a context", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeMissingContext)
	}

	ctx := in.Context.UserContext()
	actorCtx, err := authctx.ResolveActorContext(ctx)
	if err != nil {
		return GuardResult{}, err
	}
	actor, err := authctx.ActorRefFromActorContext(actorCtx)
	if err != nil {
		return GuardResult{}, err
	}
	action, err := a.actionFor(in.Operation)
	if err != nil {
		return GuardResult{}, err
	}

	home, err := a.homeRealm(in.Context, actorCtx)
	if err != nil {
		return GuardResult{}, err
	}
	requested, err := scope.BindRealm(home, in.Scope)
	if err != nil {
		a.logger.Info("crudguard: refused foreign realm",
			"operation", string(in.Operation),
			"actor_id", actor.ID.String(),
			"tenant_id", in.Scope.TenantID.String(),
			"org_id", in.Scope.OrgID.String(),
		)
		return GuardResult{}, wrapGuardError(err, action)
	}

	realm, err := a.guard.Enforce(scope.WithHomeRealm(ctx, home), actor, requested, action, in.TargetID)
	if err != nil {
		return GuardResult{}, wrapGuardError(err, action)
	}
	return GuardResult{Actor: actor, Scope: realm, Operation: in.Operation}, nil
}

func (a *Adapter) actionFor(op crud.CrudOperation) (types.PolicyAction, error) {
	if act := a.policyMap[op]; act != "" {
		return act, nil
	}
	if a.fallbackAction != "" {
		return a.fallbackAction, nil
	}
	return "", goerrors.New(fmt.Sprintf("go-profilefields: no policy action configured for %s", op), goerrors.CategoryInternal).
		WithCode(goerrors.CodeInternal).
		WithTextCode(textCodeMissingPolicy)
}

func wrapGuardError(err error, action types.PolicyAction) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return err
	}
	if errors.Is(err, types.ErrUnauthorizedScope) ||
		errors.Is(err, types.ErrRealmAdminRequired) ||
		errors.Is(err, types.ErrActorRequired) {
		return profilefield.MapAuthorizationError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("go-profilefields: scope guard failed for action %s", action)).
		WithCode(goerrors.CodeInternal).
		WithTextCode(textCodeGuardFailed)
}
