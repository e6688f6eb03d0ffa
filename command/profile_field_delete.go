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

// DeleteProfileFieldInput identifies the field to remove.
type DeleteProfileFieldInput struct {
	FieldID string
	Scope   types.ScopeFilter
	Actor   types.ActorRef
}

// Type implements gocommand.Message.
func (DeleteProfileFieldInput) Type() string {
	return "command.profile_field.delete"
}

// Validate implements gocommand.Message.
func (input DeleteProfileFieldInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if strings.TrimSpace(input.FieldID) == "" {
		return ErrFieldIDRequired
	}
	return nil
}

// DeleteProfileFieldCommand removes a field and every value users stored for it.
type DeleteProfileFieldCommand struct {
	profileFieldDeps
}

// NewDeleteProfileFieldCommand wires the delete handler.
func NewDeleteProfileFieldCommand(cfg ProfileFieldCommandConfig) *DeleteProfileFieldCommand {
	return &DeleteProfileFieldCommand{profileFieldDeps: newProfileFieldDeps(cfg)}
}

var _ gocommand.Commander[DeleteProfileFieldInput] = (*DeleteProfileFieldCommand)(nil)

// Execute authorizes, resolves and deletes the field.
func (c *DeleteProfileFieldCommand) Execute(ctx context.Context, input DeleteProfileFieldInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileFieldRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	fieldID := parseFieldID(strings.TrimSpace(input.FieldID))
	scope, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionProfileFieldsWrite, fieldID)
	if err != nil {
		return profilefield.MapAuthorizationError(err)
	}

	field, err := c.repo.GetField(ctx, fieldID, scope)
	if err != nil {
		return err
	}
	if field == nil {
		return profilefield.NotFoundError(input.FieldID)
	}
	if err := c.repo.DeleteField(ctx, field.ID, scope); err != nil {
		return err
	}
	c.logger.Info("profile field deleted", "field_id", field.ID, "name", field.Name)
	c.fieldChanged(ctx, activity.VerbProfileFieldDeleted, input.Actor, *field)
	return nil
}
