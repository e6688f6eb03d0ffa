package profilefield

import (
	"time"

	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FieldRecord models the custom_profile_fields table.
type FieldRecord struct {
	bun.BaseModel `bun:"table:custom_profile_fields"`

	ID        uuid.UUID       `bun:",pk,type:uuid"`
	TenantID  uuid.UUID       `bun:"tenant_id,type:uuid"`
	OrgID     uuid.UUID       `bun:"org_id,type:uuid"`
	Name      string          `bun:"name"`
	Hint      string          `bun:"hint"`
	FieldType int             `bun:"field_type"`
	FieldData types.FieldData `bun:"field_data,type:jsonb"`
	Order     int             `bun:"field_order"`
	CreatedBy uuid.UUID       `bun:"created_by,type:uuid,nullzero"`
	UpdatedBy uuid.UUID       `bun:"updated_by,type:uuid,nullzero"`
	CreatedAt time.Time       `bun:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

// ValueRecord models the custom_profile_field_values table.
type ValueRecord struct {
	bun.BaseModel `bun:"table:custom_profile_field_values"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	UserID    uuid.UUID `bun:"user_id,type:uuid"`
	FieldID   uuid.UUID `bun:"field_id,type:uuid"`
	TenantID  uuid.UUID `bun:"tenant_id,type:uuid"`
	OrgID     uuid.UUID `bun:"org_id,type:uuid"`
	Value     string    `bun:"value"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
}

func toField(rec *FieldRecord) types.ProfileField {
	if rec == nil {
		return types.ProfileField{}
	}
	return types.ProfileField{
		ID:        rec.ID,
		Name:      rec.Name,
		Hint:      rec.Hint,
		Type:      types.ProfileFieldType(rec.FieldType),
		FieldData: rec.FieldData.Clone(),
		Order:     rec.Order,
		Scope: types.ScopeFilter{
			TenantID: rec.TenantID,
			OrgID:    rec.OrgID,
		},
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		CreatedBy: rec.CreatedBy,
		UpdatedBy: rec.UpdatedBy,
	}
}

func toFieldPtr(rec *FieldRecord) *types.ProfileField {
	if rec == nil {
		return nil
	}
	field := toField(rec)
	return &field
}

func toValue(rec *ValueRecord) types.ProfileFieldValue {
	if rec == nil {
		return types.ProfileFieldValue{}
	}
	return types.ProfileFieldValue{
		ID:      rec.ID,
		UserID:  rec.UserID,
		FieldID: rec.FieldID,
		Value:   rec.Value,
		Scope: types.ScopeFilter{
			TenantID: rec.TenantID,
			OrgID:    rec.OrgID,
		},
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func sameRealm(rec *FieldRecord, scope types.ScopeFilter) bool {
	return rec != nil && rec.TenantID == scope.TenantID && rec.OrgID == scope.OrgID
}

// FieldFromRecord converts a stored row into the domain definition.
func FieldFromRecord(rec *FieldRecord) types.ProfileField {
	return toField(rec)
}

// RecordFromField converts a definition into its table row, used by CRUD
// controllers that speak in records.
func RecordFromField(field types.ProfileField) *FieldRecord {
	return &FieldRecord{
		ID:        field.ID,
		TenantID:  field.Scope.TenantID,
		OrgID:     field.Scope.OrgID,
		Name:      field.Name,
		Hint:      field.Hint,
		FieldType: int(field.Type),
		FieldData: field.FieldData.Clone(),
		Order:     field.Order,
		CreatedBy: field.CreatedBy,
		UpdatedBy: field.UpdatedBy,
		CreatedAt: field.CreatedAt,
		UpdatedAt: field.UpdatedAt,
	}
}
