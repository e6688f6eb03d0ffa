package types

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ProfileFieldType enumerates the value types a custom profile field accepts.
// The numeric values are part of the wire contract.
type ProfileFieldType int

const (
	ProfileFieldShortText ProfileFieldType = 1
	ProfileFieldLongText  ProfileFieldType = 2
	ProfileFieldChoice    ProfileFieldType = 3
	ProfileFieldDate      ProfileFieldType = 4
	ProfileFieldURL       ProfileFieldType = 5
)

const (
	// ProfileFieldNameMaxLength bounds field names.
	ProfileFieldNameMaxLength = 40
	// ProfileFieldHintMaxLength bounds field hints.
	ProfileFieldHintMaxLength = 80
	// ShortTextMaxLength bounds short text values.
	ShortTextMaxLength = 50
	// LongTextMaxLength bounds long text values.
	LongTextMaxLength = 500
	// ProfileDateLayout is the accepted date layout; month and day may omit
	// the leading zero.
	ProfileDateLayout = "2006-1-2"
)

// ProfileFieldTypes lists every supported field type in display order.
var ProfileFieldTypes = []ProfileFieldType{
	ProfileFieldShortText,
	ProfileFieldLongText,
	ProfileFieldChoice,
	ProfileFieldDate,
	ProfileFieldURL,
}

// Valid reports whether the type is one of the supported field types.
func (t ProfileFieldType) Valid() bool {
	for _, candidate := range ProfileFieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// String returns the display name of the field type.
func (t ProfileFieldType) String() string {
	switch t {
	case ProfileFieldShortText:
		return "Short text"
	case ProfileFieldLongText:
		return "Long text"
	case ProfileFieldChoice:
		return "Choice"
	case ProfileFieldDate:
		return "Date"
	case ProfileFieldURL:
		return "URL"
	default:
		return "Unknown"
	}
}

// ChoiceOption is a single selectable entry of a choice field.
type ChoiceOption struct {
	Text  string `json:"text"`
	Order string `json:"order"`
}

// FieldData maps option ids (the stored value) to their display text and order.
type FieldData map[string]ChoiceOption

// ChoiceEntry pairs an option id with its option.
type ChoiceEntry struct {
	ID string
	ChoiceOption
}

// Has reports whether the option id exists.
func (d FieldData) Has(id string) bool {
	_, ok := d[id]
	return ok
}

// Clone returns a detached copy.
func (d FieldData) Clone() FieldData {
	if d == nil {
		return nil
	}
	out := make(FieldData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Entries returns the options sorted by order. Orders compare numerically when
// both parse as integers, lexically otherwise; ties fall back to the id.
func (d FieldData) Entries() []ChoiceEntry {
	out := make([]ChoiceEntry, 0, len(d))
	for id, opt := range d {
		out = append(out, ChoiceEntry{ID: id, ChoiceOption: opt})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Order != b.Order {
			ai, errA := strconv.Atoi(a.Order)
			bi, errB := strconv.Atoi(b.Order)
			if errA == nil && errB == nil {
				return ai < bi
			}
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return out
}

// Encode returns the JSON representation used on the wire, with options
// written in Entries order. Empty data encodes as an empty string.
func (d FieldData) Encode() string {
	if len(d) == 0 {
		return ""
	}
	payload, err := d.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(payload)
}

// MarshalJSON writes the options object in Entries order so clients that keep
// key order render choices the way admins arranged them.
func (d FieldData) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.ID)
		if err != nil {
			return nil, err
		}
		opt, err := json.Marshal(entry.ChoiceOption)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(opt)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ProfileField is a realm-defined custom profile field.
type ProfileField struct {
	ID        uuid.UUID
	Name      string
	Hint      string
	Type      ProfileFieldType
	FieldData FieldData
	Order     int
	Scope     ScopeFilter
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
}

// ProfileFieldValue stores the validated value a user holds for a field.
type ProfileFieldValue struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FieldID   uuid.UUID
	Value     string
	Scope     ScopeFilter
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileDataEntry is the read model combining a field definition with the
// user's value. Value is nil when the user never set it.
type ProfileDataEntry struct {
	Field ProfileField
	Value *string
}

// ProfileFieldRepository persists field definitions and per-user values.
// Lookups return (nil, nil) when the record does not exist.
type ProfileFieldRepository interface {
	ListFields(ctx context.Context, scope ScopeFilter) ([]ProfileField, error)
	GetField(ctx context.Context, id uuid.UUID, scope ScopeFilter) (*ProfileField, error)
	FindFieldByName(ctx context.Context, name string, scope ScopeFilter) (*ProfileField, error)
	CreateField(ctx context.Context, field ProfileField) (*ProfileField, error)
	UpdateField(ctx context.Context, field ProfileField) (*ProfileField, error)
	DeleteField(ctx context.Context, id uuid.UUID, scope ScopeFilter) error
	ListValues(ctx context.Context, userID uuid.UUID, scope ScopeFilter) ([]ProfileFieldValue, error)
	UpsertValues(ctx context.Context, values []ProfileFieldValue) ([]ProfileFieldValue, error)
}
