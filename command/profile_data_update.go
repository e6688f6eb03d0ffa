package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-profilefields/activity"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/google/uuid"
)

// ProfileDataItem is a single {id, value} pair submitted by a user. Value is
// the decoded JSON value so non-string payloads can be rejected per type.
type ProfileDataItem struct {
	FieldID string
	Value   any
}

// UpdateProfileDataInput sets custom profile values for a user. UserID
// defaults to the actor.
type UpdateProfileDataInput struct {
	UserID uuid.UUID
	Items  []ProfileDataItem
	Scope  types.ScopeFilter
	Actor  types.ActorRef
	Result *[]types.ProfileFieldValue
}

// Type implements gocommand.Message.
func (UpdateProfileDataInput) Type() string {
	return "command.profile_data.update"
}

// Validate implements gocommand.Message.
func (input UpdateProfileDataInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	return nil
}

// UpdateProfileDataCommand validates every submitted value before writing
// any of them, then stores them in one transaction.
type UpdateProfileDataCommand struct {
	profileFieldDeps
}

// NewUpdateProfileDataCommand wires the value update handler.
func NewUpdateProfileDataCommand(cfg ProfileFieldCommandConfig) *UpdateProfileDataCommand {
	return &UpdateProfileDataCommand{profileFieldDeps: newProfileFieldDeps(cfg)}
}

var _ gocommand.Commander[UpdateProfileDataInput] = (*UpdateProfileDataCommand)(nil)

// Execute validates and stores the values.
func (c *UpdateProfileDataCommand) Execute(ctx context.Context, input UpdateProfileDataInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileFieldRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	userID := input.UserID
	if userID == uuid.Nil {
		userID = input.Actor.ID
	}
	scope, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionProfileDataWrite, userID)
	if err != nil {
		return profilefield.MapAuthorizationError(err)
	}
	if err := requireFeature(ctx, c.gate, scope, userID); err != nil {
		return err
	}

	fields := make(map[uuid.UUID]*types.ProfileField, len(input.Items))
	positions := make(map[uuid.UUID]int, len(input.Items))
	values := make([]types.ProfileFieldValue, 0, len(input.Items))
	for _, item := range input.Items {
		raw := strings.TrimSpace(item.FieldID)
		fieldID := parseFieldID(raw)
		field, ok := fields[fieldID]
		if !ok {
			field, err = c.repo.GetField(ctx, fieldID, scope)
			if err != nil {
				return err
			}
			fields[fieldID] = field
		}
		if field == nil {
			return profilefield.NotFoundError(raw)
		}
		value, err := profilefield.ValidateValue(*field, item.Value)
		if err != nil {
			return err
		}
		entry := types.ProfileFieldValue{
			UserID:  userID,
			FieldID: field.ID,
			Value:   value,
			Scope:   scope,
		}
		if idx, seen := positions[field.ID]; seen {
			values[idx] = entry
			continue
		}
		positions[field.ID] = len(values)
		values = append(values, entry)
	}
	if len(values) == 0 {
		if input.Result != nil {
			*input.Result = []types.ProfileFieldValue{}
		}
		return nil
	}

	stored, err := c.repo.UpsertValues(ctx, values)
	if err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = stored
	}

	occurred := now(c.clock)
	emitProfileDataHook(ctx, c.hooks, types.ProfileDataEvent{
		UserID:     userID,
		ActorID:    input.Actor.ID,
		Scope:      scope,
		OccurredAt: occurred,
		Values:     stored,
	})
	for _, value := range values {
		field := fields[value.FieldID]
		record := activity.BuildRecord(input.Actor, scope, activity.VerbProfileDataUpdated, activity.ObjectTypeProfileFieldValue, value.FieldID.String(),
			map[string]any{
				"field_name": field.Name,
				"field_type": int(field.Type),
				"value":      value.Value,
			},
			activity.WithUser(userID),
		)
		record.OccurredAt = occurred
		recordActivity(ctx, c.sink, c.hooks, c.logger, record)
	}
	c.logger.Debug("profile data updated", "user_id", userID, "count", len(values))
	return nil
}
