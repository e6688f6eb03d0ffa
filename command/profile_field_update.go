package command

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-profilefields/activity"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/google/uuid"
)

// UpdateProfileFieldInput renames a field or changes its hint and choices.
// FieldID is the identifier as supplied by the client; unknown or malformed
// identifiers are reported as not found. An empty Hint clears the hint and an
// empty FieldData keeps the current choices.
type UpdateProfileFieldInput struct {
	FieldID   string
	Name      string
	Hint      string
	FieldData string
	Scope     types.ScopeFilter
	Actor     types.ActorRef
	Result    *types.ProfileField
}

// Type implements gocommand.Message.
func (UpdateProfileFieldInput) Type() string {
	return "command.profile_field.update"
}

// Validate implements gocommand.Message.
func (input UpdateProfileFieldInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	if strings.TrimSpace(input.FieldID) == "" {
		return ErrFieldIDRequired
	}
	return nil
}

// UpdateProfileFieldCommand mutates an existing field definition. The field
// type never changes.
type UpdateProfileFieldCommand struct {
	profileFieldDeps
}

// NewUpdateProfileFieldCommand wires the update handler.
func NewUpdateProfileFieldCommand(cfg ProfileFieldCommandConfig) *UpdateProfileFieldCommand {
	return &UpdateProfileFieldCommand{profileFieldDeps: newProfileFieldDeps(cfg)}
}

var _ gocommand.Commander[UpdateProfileFieldInput] = (*UpdateProfileFieldCommand)(nil)

// Execute validates the patch and persists it.
func (c *UpdateProfileFieldCommand) Execute(ctx context.Context, input UpdateProfileFieldInput) error {
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

	name := strings.TrimSpace(input.Name)
	if err := profilefield.ValidateDefinition(profilefield.DefinitionInput{Name: name, Hint: input.Hint}); err != nil {
		return err
	}

	field, err := c.repo.GetField(ctx, fieldID, scope)
	if err != nil {
		return err
	}
	if field == nil {
		return profilefield.NotFoundError(input.FieldID)
	}

	patch := *field
	patch.Name = name
	patch.Hint = input.Hint
	patch.UpdatedBy = input.Actor.ID
	patch.FieldData = nil
	if field.Type == types.ProfileFieldChoice && strings.TrimSpace(input.FieldData) != "" {
		data, err := profilefield.ParseChoiceFieldData(input.FieldData)
		if err != nil {
			return err
		}
		patch.FieldData = data
	}

	existing, err := c.repo.FindFieldByName(ctx, name, scope)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != field.ID {
		return profilefield.NameTakenError(name)
	}

	updated, err := c.repo.UpdateField(ctx, patch)
	if err != nil {
		if errors.Is(err, profilefield.ErrDuplicateName) {
			return profilefield.NameTakenError(name)
		}
		return err
	}
	if input.Result != nil {
		*input.Result = *updated
	}
	c.logger.Info("profile field updated", "field_id", updated.ID, "name", updated.Name)
	c.fieldChanged(ctx, activity.VerbProfileFieldUpdated, input.Actor, *updated)
	return nil
}
