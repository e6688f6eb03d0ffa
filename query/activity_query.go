package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-profilefields/activity"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/scope"
	"github.com/google/uuid"
)

// ActivityFeedQuery renders the realm's profile field audit trail. Stored
// values are masked before they leave the query.
type ActivityFeedQuery struct {
	repo  types.ActivityRepository
	guard scope.Guard
	mask  *masker.Masker
}

// ActivityFeedOption customizes the feed query.
type ActivityFeedOption func(*ActivityFeedQuery)

// WithActivityMasker overrides the masker applied to record payloads.
func WithActivityMasker(mask *masker.Masker) ActivityFeedOption {
	return func(q *ActivityFeedQuery) {
		if mask != nil {
			q.mask = mask
		}
	}
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo types.ActivityRepository, guard scope.Guard, opts ...ActivityFeedOption) *ActivityFeedQuery {
	q := &ActivityFeedQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

// Query fetches a page of activity records via the injected repository.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	if q.repo == nil {
		return types.ActivityPage{}, types.ErrMissingActivityRepository
	}
	scope, err := q.guard.Enforce(ctx, filter.Actor, filter.Scope, types.PolicyActionActivityRead, uuid.Nil)
	if err != nil {
		return types.ActivityPage{}, profilefield.MapAuthorizationError(err)
	}
	filter.Scope = scope
	page, err := q.repo.ListActivity(ctx, filter)
	if err != nil {
		return types.ActivityPage{}, err
	}
	page.Records = activity.SanitizeRecords(q.mask, page.Records)
	return page, nil
}
