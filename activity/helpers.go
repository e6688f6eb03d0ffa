package activity

import (
	"strings"

	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/google/uuid"
)

const (
	VerbProfileFieldCreated = "profile_field.created"
	VerbProfileFieldUpdated = "profile_field.updated"
	VerbProfileFieldDeleted = "profile_field.deleted"
	VerbProfileDataUpdated  = "profile_data.updated"

	ObjectTypeProfileField      = "profile_field"
	ObjectTypeProfileFieldValue = "profile_field_value"

	ChannelProfileFields = "profile_fields"
)

// RecordOption mutates the ActivityRecord produced by BuildRecord.
type RecordOption func(*types.ActivityRecord)

// WithChannel overrides the channel used for downstream filtering.
func WithChannel(channel string) RecordOption {
	return func(record *types.ActivityRecord) {
		record.Channel = strings.TrimSpace(channel)
	}
}

// WithUser sets the user the activity is about.
func WithUser(userID uuid.UUID) RecordOption {
	return func(record *types.ActivityRecord) {
		record.UserID = userID
	}
}

// BuildRecord constructs an ActivityRecord for the actor within the realm
// scope. Metadata is copied so callers can keep mutating their map.
func BuildRecord(actor types.ActorRef, scope types.ScopeFilter, verb, objectType, objectID string, metadata map[string]any, opts ...RecordOption) types.ActivityRecord {
	record := types.ActivityRecord{
		ActorID:    actor.ID,
		Verb:       strings.TrimSpace(verb),
		ObjectType: strings.TrimSpace(objectType),
		ObjectID:   strings.TrimSpace(objectID),
		Channel:    ChannelProfileFields,
		TenantID:   scope.TenantID,
		OrgID:      scope.OrgID,
		Data:       cloneMap(metadata),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&record)
		}
	}
	return record
}
