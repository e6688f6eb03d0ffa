package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/scope"
	"github.com/google/uuid"
)

// ProfileDataFilter scopes a user's custom profile lookup. UserID defaults
// to the actor.
type ProfileDataFilter struct {
	Actor  types.ActorRef
	Scope  types.ScopeFilter
	UserID uuid.UUID
}

// ProfileDataQuery joins the realm definitions with the values a user holds.
// Every field is returned; fields the user never filled carry a nil Value.
type ProfileDataQuery struct {
	repo  types.ProfileFieldRepository
	guard scope.Guard
}

// NewProfileDataQuery constructs the profile data helper.
func NewProfileDataQuery(repo types.ProfileFieldRepository, guard scope.Guard) *ProfileDataQuery {
	return &ProfileDataQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[ProfileDataFilter, []types.ProfileDataEntry] = (*ProfileDataQuery)(nil)

// Query returns the user's entries in field display order.
func (q *ProfileDataQuery) Query(ctx context.Context, filter ProfileDataFilter) ([]types.ProfileDataEntry, error) {
	if q.repo == nil {
		return nil, types.ErrMissingProfileFieldRepository
	}
	userID := filter.UserID
	if userID == uuid.Nil {
		userID = filter.Actor.ID
	}
	if userID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	scope, err := q.guard.Enforce(ctx, filter.Actor, filter.Scope, types.PolicyActionProfileDataRead, userID)
	if err != nil {
		return nil, profilefield.MapAuthorizationError(err)
	}

	fields, err := q.repo.ListFields(ctx, scope)
	if err != nil {
		return nil, err
	}
	values, err := q.repo.ListValues(ctx, userID, scope)
	if err != nil {
		return nil, err
	}
	byField := make(map[uuid.UUID]string, len(values))
	for _, value := range values {
		byField[value.FieldID] = value.Value
	}

	out := make([]types.ProfileDataEntry, 0, len(fields))
	for _, field := range fields {
		entry := types.ProfileDataEntry{Field: field}
		if value, ok := byField[field.ID]; ok {
			entry.Value = &value
		}
		out = append(out, entry)
	}
	return out, nil
}
