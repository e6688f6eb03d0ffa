package types

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScopeFilter carries the tenant/org pair that identifies a realm. Commands
// and queries receive the requested scope and the guard resolves the
// canonical one.
type ScopeFilter struct {
	TenantID uuid.UUID
	OrgID    uuid.UUID
	Labels   map[string]uuid.UUID
}

// Clone returns a copy of the scope filter with labels detached from the
// original map reference so callers can mutate safely.
func (s ScopeFilter) Clone() ScopeFilter {
	clone := ScopeFilter{
		TenantID: s.TenantID,
		OrgID:    s.OrgID,
	}
	if len(s.Labels) > 0 {
		clone.Labels = make(map[string]uuid.UUID, len(s.Labels))
		for k, v := range s.Labels {
			clone.Labels[k] = v
		}
	}
	return clone
}

// WithLabel returns a cloned scope filter with the provided label set. Keys are
// normalized to lower-case so lookups stay consistent across transports.
func (s ScopeFilter) WithLabel(key string, id uuid.UUID) ScopeFilter {
	if strings.TrimSpace(key) == "" || id == uuid.Nil {
		return s
	}
	clone := s.Clone()
	if clone.Labels == nil {
		clone.Labels = make(map[string]uuid.UUID)
	}
	clone.Labels[strings.ToLower(key)] = id
	return clone
}

// Label returns the identifier previously stored under the key (case
// insensitive). When the label has not been set, uuid.Nil is returned.
func (s ScopeFilter) Label(key string) uuid.UUID {
	if len(s.Labels) == 0 {
		return uuid.Nil
	}
	return s.Labels[strings.ToLower(strings.TrimSpace(key))]
}

// IsZero reports whether neither tenant nor org are set.
func (s ScopeFilter) IsZero() bool {
	return s.TenantID == uuid.Nil && s.OrgID == uuid.Nil
}

// ActorRef identifies who is initiating a command or query.
type ActorRef struct {
	ID   uuid.UUID
	Type string
}

// Pagination supports query pagination across admin panels.
type Pagination struct {
	Limit  int
	Offset int
}

// ProfileFieldEvent is emitted after a field definition is created, updated
// or deleted so realm clients can refresh their field catalog.
type ProfileFieldEvent struct {
	FieldID    uuid.UUID
	Action     string
	ActorID    uuid.UUID
	Scope      ScopeFilter
	OccurredAt time.Time
	Field      ProfileField
}

// ProfileDataEvent signals that a user's custom profile values changed.
type ProfileDataEvent struct {
	UserID     uuid.UUID
	ActorID    uuid.UUID
	Scope      ScopeFilter
	OccurredAt time.Time
	Values     []ProfileFieldValue
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterProfileFieldChange func(context.Context, ProfileFieldEvent)
	AfterProfileDataChange  func(context.Context, ProfileDataEvent)
	AfterActivity           func(context.Context, ActivityRecord)
}

// ActivityRecord describes sink inputs and is shared across sink and query layers.
type ActivityRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ActorID    uuid.UUID
	Verb       string
	ObjectType string
	ObjectID   string
	Channel    string
	IP         string
	TenantID   uuid.UUID
	OrgID      uuid.UUID
	Data       map[string]any
	OccurredAt time.Time
}

// ActivitySink is the minimal DI contract for emitting activity. Keep it stable
// and limited to Log so downstream modules can swap sinks without breaking
// changes.
type ActivitySink interface {
	Log(context.Context, ActivityRecord) error
}

// ActivityFilter narrows activity feed queries.
type ActivityFilter struct {
	Actor      ActorRef
	Scope      ScopeFilter
	UserID     uuid.UUID
	ObjectType string
	ObjectID   string
	Verbs      []string
	Pagination Pagination
}

// ActivityPage represents a paginated feed response.
type ActivityPage struct {
	Records    []ActivityRecord
	Total      int
	NextOffset int
	HasMore    bool
}

// ActivityRepository exposes read-side access to activity logs.
type ActivityRepository interface {
	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = errors.New("go-profilefields: actor reference required")
	// ErrUserIDRequired indicates a user identifier was omitted.
	ErrUserIDRequired = errors.New("go-profilefields: user id required")
	// ErrFieldIDRequired indicates a field identifier was omitted.
	ErrFieldIDRequired = errors.New("go-profilefields: field id required")
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-profilefields: service not ready")
	// ErrMissingProfileFieldRepository occurs when commands or queries lack a storage backend.
	ErrMissingProfileFieldRepository = errors.New("go-profilefields: missing profile field repository")
	// ErrMissingActivitySink occurs when no activity sink was supplied.
	ErrMissingActivitySink = errors.New("go-profilefields: missing activity sink")
	// ErrMissingActivityRepository occurs when the activity feed lacks a read store.
	ErrMissingActivityRepository = errors.New("go-profilefields: missing activity repository")
)
