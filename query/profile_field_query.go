package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/scope"
	"github.com/google/uuid"
)

// ProfileFieldListFilter scopes definition listings.
type ProfileFieldListFilter struct {
	Actor types.ActorRef
	Scope types.ScopeFilter
}

// ProfileFieldListQuery lists the custom profile fields of a realm in
// display order.
type ProfileFieldListQuery struct {
	repo  types.ProfileFieldRepository
	guard scope.Guard
}

// NewProfileFieldListQuery constructs the listing helper.
func NewProfileFieldListQuery(repo types.ProfileFieldRepository, guard scope.Guard) *ProfileFieldListQuery {
	return &ProfileFieldListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[ProfileFieldListFilter, []types.ProfileField] = (*ProfileFieldListQuery)(nil)

// Query returns every definition visible to the actor.
func (q *ProfileFieldListQuery) Query(ctx context.Context, filter ProfileFieldListFilter) ([]types.ProfileField, error) {
	if q.repo == nil {
		return nil, types.ErrMissingProfileFieldRepository
	}
	scope, err := q.guard.Enforce(ctx, filter.Actor, filter.Scope, types.PolicyActionProfileFieldsRead, uuid.Nil)
	if err != nil {
		return nil, profilefield.MapAuthorizationError(err)
	}
	fields, err := q.repo.ListFields(ctx, scope)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []types.ProfileField{}
	}
	return fields, nil
}
