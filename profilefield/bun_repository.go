package profilefield

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed profile field store. DB is required
// for transactional value upserts; Fields and Values override the generic
// repositories built from DB.
type RepositoryConfig struct {
	DB     *bun.DB
	Fields repository.Repository[*FieldRecord]
	Values repository.Repository[*ValueRecord]
	Clock  types.Clock
	IDGen  types.IDGenerator
}

// Repository implements types.ProfileFieldRepository.
type Repository struct {
	db     *bun.DB
	fields repository.Repository[*FieldRecord]
	lister repository.Repository[*FieldRecord]
	values repository.Repository[*ValueRecord]
	clock  types.Clock
	idGen  types.IDGenerator
}

// NewRepository constructs the default profile field store.
func NewRepository(cfg RepositoryConfig, opts ...RepositoryOption) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("profilefield: db required")
	}
	options := applyRepositoryOptions(opts)

	fields := cfg.Fields
	if fields == nil {
		fields = NewFieldRecordRepository(cfg.DB)
	}
	values := cfg.Values
	if values == nil {
		values = NewValueRecordRepository(cfg.DB)
	}

	lister := fields
	if options.CacheEnabled {
		cached, err := wrapWithCache(fields, options.CacheConfig)
		if err != nil {
			return nil, err
		}
		fields = cached
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
		db:     cfg.DB,
		fields: fields,
		lister: lister,
		values: values,
		clock:  clock,
		idGen:  idGen,
	}, nil
}

var _ types.ProfileFieldRepository = (*Repository)(nil)

// NewFieldRecordRepository builds the generic repository for field definitions.
func NewFieldRecordRepository(db *bun.DB) repository.Repository[*FieldRecord] {
	return repository.NewRepository(db, repository.ModelHandlers[*FieldRecord]{
		NewRecord: func() *FieldRecord { return &FieldRecord{} },
		GetID: func(rec *FieldRecord) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *FieldRecord, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
		GetIdentifier: func() string { return "name" },
	})
}

// NewValueRecordRepository builds the generic repository for user values.
func NewValueRecordRepository(db *bun.DB) repository.Repository[*ValueRecord] {
	return repository.NewRepository(db, repository.ModelHandlers[*ValueRecord]{
		NewRecord: func() *ValueRecord { return &ValueRecord{} },
		GetID: func(rec *ValueRecord) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *ValueRecord, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
}

func wrapWithCache(base repository.Repository[*FieldRecord], cfg *cache.Config) (repository.Repository[*FieldRecord], error) {
	if existing, ok := base.(*repositorycache.CachedRepository[*FieldRecord]); ok {
		return existing, nil
	}
	config := cache.DefaultConfig()
	if cfg != nil {
		config = *cfg
	}
	service, err := cache.NewCacheService(config)
	if err != nil {
		return nil, fmt.Errorf("profilefield: cache service: %w", err)
	}
	return repositorycache.New(base, service, cache.NewDefaultKeySerializer()), nil
}

// ListFields returns every field of the realm ordered for display.
func (r *Repository) ListFields(ctx context.Context, scope types.ScopeFilter) ([]types.ProfileField, error) {
	rows, _, err := r.lister.List(ctx,
		realmSelectCriteria(scope),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("field_order ASC").OrderExpr("name ASC")
		},
	)
	if err != nil {
		return nil, err
	}
	out := make([]types.ProfileField, 0, len(rows))
	for _, row := range rows {
		out = append(out, toField(row))
	}
	return out, nil
}

// GetField returns the field when it exists within the realm.
func (r *Repository) GetField(ctx context.Context, id uuid.UUID, scope types.ScopeFilter) (*types.ProfileField, error) {
	rec, err := r.findRecord(ctx, id, scope)
	if err != nil || rec == nil {
		return nil, err
	}
	return toFieldPtr(rec), nil
}

// FindFieldByName looks up a field by its exact name within the realm.
func (r *Repository) FindFieldByName(ctx context.Context, name string, scope types.ScopeFilter) (*types.ProfileField, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	rec, err := r.lister.Get(ctx,
		realmSelectCriteria(scope),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("name = ?", name)
		},
	)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toFieldPtr(rec), nil
}

// CreateField persists a new definition and appends it to the realm order.
func (r *Repository) CreateField(ctx context.Context, field types.ProfileField) (*types.ProfileField, error) {
	existing, err := r.ListFields(ctx, field.Scope)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, current := range existing {
		if current.Order > order {
			order = current.Order
		}
	}

	now := r.clock.Now()
	rec := &FieldRecord{
		ID:        field.ID,
		TenantID:  field.Scope.TenantID,
		OrgID:     field.Scope.OrgID,
		Name:      strings.TrimSpace(field.Name),
		Hint:      field.Hint,
		FieldType: int(field.Type),
		FieldData: field.FieldData.Clone(),
		Order:     order + 1,
		CreatedBy: field.CreatedBy,
		UpdatedBy: field.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	if field.Type != types.ProfileFieldChoice {
		rec.FieldData = nil
	}

	created, err := r.fields.Create(ctx, rec)
	if err != nil {
		if repository.IsDuplicatedKey(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return toFieldPtr(created), nil
}

// UpdateField rewrites the mutable columns of a definition. The field type,
// order and creation audit columns are preserved.
func (r *Repository) UpdateField(ctx context.Context, field types.ProfileField) (*types.ProfileField, error) {
	rec, err := r.findRecord(ctx, field.ID, field.Scope)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, repository.NewRecordNotFound()
	}
	rec.Name = strings.TrimSpace(field.Name)
	rec.Hint = field.Hint
	if types.ProfileFieldType(rec.FieldType) == types.ProfileFieldChoice && len(field.FieldData) > 0 {
		rec.FieldData = field.FieldData.Clone()
	}
	rec.UpdatedBy = field.UpdatedBy
	rec.UpdatedAt = r.clock.Now()

	updated, err := r.fields.Update(ctx, rec)
	if err != nil {
		if repository.IsDuplicatedKey(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return toFieldPtr(updated), nil
}

// DeleteField removes every value attached to the field, then the field.
func (r *Repository) DeleteField(ctx context.Context, id uuid.UUID, scope types.ScopeFilter) error {
	rec, err := r.findRecord(ctx, id, scope)
	if err != nil {
		return err
	}
	if rec == nil {
		return repository.NewRecordNotFound()
	}
	if err := r.values.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("field_id = ?", rec.ID)
	}); err != nil {
		return err
	}
	return r.fields.Delete(ctx, rec)
}

// ListValues returns the values a user holds within the realm.
func (r *Repository) ListValues(ctx context.Context, userID uuid.UUID, scope types.ScopeFilter) ([]types.ProfileFieldValue, error) {
	rows, _, err := r.values.List(ctx,
		realmSelectCriteria(scope),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("user_id = ?", userID).OrderExpr("created_at ASC")
		},
	)
	if err != nil {
		return nil, err
	}
	out := make([]types.ProfileFieldValue, 0, len(rows))
	for _, row := range rows {
		out = append(out, toValue(row))
	}
	return out, nil
}

// UpsertValues writes every value in a single transaction keyed by
// (user_id, field_id). Existing rows keep their id and created_at.
func (r *Repository) UpsertValues(ctx context.Context, values []types.ProfileFieldValue) ([]types.ProfileFieldValue, error) {
	if len(values) == 0 {
		return nil, nil
	}
	now := r.clock.Now()
	records := make([]*ValueRecord, 0, len(values))
	for _, value := range values {
		if value.UserID == uuid.Nil {
			return nil, types.ErrUserIDRequired
		}
		if value.FieldID == uuid.Nil {
			return nil, types.ErrFieldIDRequired
		}
		records = append(records, &ValueRecord{
			ID:        r.idGen.UUID(),
			UserID:    value.UserID,
			FieldID:   value.FieldID,
			TenantID:  value.Scope.TenantID,
			OrgID:     value.Scope.OrgID,
			Value:     value.Value,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&records).
			On("CONFLICT (user_id, field_id) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	stored, err := r.ListValues(ctx, values[0].UserID, values[0].Scope)
	if err != nil {
		return nil, err
	}
	written := make(map[uuid.UUID]struct{}, len(values))
	for _, value := range values {
		written[value.FieldID] = struct{}{}
	}
	out := make([]types.ProfileFieldValue, 0, len(values))
	for _, value := range stored {
		if _, ok := written[value.FieldID]; ok {
			out = append(out, value)
		}
	}
	return out, nil
}

func (r *Repository) findRecord(ctx context.Context, id uuid.UUID, scope types.ScopeFilter) (*FieldRecord, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rec, err := r.fields.GetByID(ctx, id.String(), realmSelectCriteria(scope))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !sameRealm(rec, scope) {
		return nil, nil
	}
	return rec, nil
}

func realmSelectCriteria(scope types.ScopeFilter) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("tenant_id = ? AND org_id = ?", scope.TenantID, scope.OrgID)
	}
}
