package activity

import (
	"context"
	"errors"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed activity repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type activityStore interface {
	repository.Repository[*LogEntry]
}

// Repository persists activity logs and exposes query helpers.
type Repository struct {
	activityStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs a repository that implements both ActivitySink
// and ActivityRepository interfaces.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("activity: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LogEntry]{
			NewRecord: func() *LogEntry { return &LogEntry{} },
			GetID: func(entry *LogEntry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *LogEntry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Repository{
		activityStore: repo,
		clock:         clock,
		idGen:         idGen,
	}, nil
}

var (
	_ types.ActivitySink       = (*Repository)(nil)
	_ types.ActivityRepository = (*Repository)(nil)
)

// Log persists an activity record.
func (r *Repository) Log(ctx context.Context, record types.ActivityRecord) error {
	entry := FromActivityRecord(record)
	if entry.ID == uuid.Nil {
		entry.ID = r.idGen.UUID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	_, err := r.Create(ctx, entry)
	return err
}

// ListActivity returns a newest-first page filtered by the supplied criteria.
func (r *Repository) ListActivity(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	rows, total, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.OrderExpr("created_at DESC").
			Limit(pagination.Limit).
			Offset(pagination.Offset)
		return applyActivityFilter(q, filter)
	})
	if err != nil {
		return types.ActivityPage{}, err
	}
	records := make([]types.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ToActivityRecord(row))
	}
	return types.ActivityPage{
		Records:    records,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

func applyActivityFilter(q *bun.SelectQuery, filter types.ActivityFilter) *bun.SelectQuery {
	if filter.Scope.TenantID != uuid.Nil {
		q = q.Where("tenant_id = ?", filter.Scope.TenantID)
	}
	if filter.Scope.OrgID != uuid.Nil {
		q = q.Where("org_id = ?", filter.Scope.OrgID)
	}
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if len(filter.Verbs) > 0 {
		q = q.Where("verb IN (?)", bun.In(filter.Verbs))
	}
	if filter.ObjectType != "" {
		q = q.Where("object_type = ?", filter.ObjectType)
	}
	if filter.ObjectID != "" {
		q = q.Where("object_id = ?", filter.ObjectID)
	}
	return q
}

// FromActivityRecord converts a domain record into its table row.
func FromActivityRecord(record types.ActivityRecord) *LogEntry {
	return &LogEntry{
		ID:         record.ID,
		UserID:     record.UserID,
		ActorID:    record.ActorID,
		TenantID:   record.TenantID,
		OrgID:      record.OrgID,
		Verb:       record.Verb,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		Channel:    record.Channel,
		IP:         record.IP,
		Data:       cloneMap(record.Data),
		CreatedAt:  record.OccurredAt,
	}
}

// ToActivityRecord converts a stored row into the domain record.
func ToActivityRecord(entry *LogEntry) types.ActivityRecord {
	if entry == nil {
		return types.ActivityRecord{}
	}
	return types.ActivityRecord{
		ID:         entry.ID,
		UserID:     entry.UserID,
		ActorID:    entry.ActorID,
		TenantID:   entry.TenantID,
		OrgID:      entry.OrgID,
		Verb:       entry.Verb,
		ObjectType: entry.ObjectType,
		ObjectID:   entry.ObjectID,
		Channel:    entry.Channel,
		IP:         entry.IP,
		Data:       cloneMap(entry.Data),
		OccurredAt: entry.CreatedAt,
	}
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
