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

// CreateProfileFieldInput carries a new field definition. FieldData is the
// raw JSON payload and only matters for choice fields.
type CreateProfileFieldInput struct {
	Name      string
	Hint      string
	FieldType types.ProfileFieldType
	FieldData string
	Scope     types.ScopeFilter
	Actor     types.ActorRef
	Result    *types.ProfileField
}

// Type implements gocommand.Message.
func (CreateProfileFieldInput) Type() string {
	return "command.profile_field.create"
}

// Validate implements gocommand.Message.
func (input CreateProfileFieldInput) Validate() error {
	if input.Actor.ID == uuid.Nil {
		return ErrActorRequired
	}
	return nil
}

// CreateProfileFieldCommand adds a field definition to the realm.
type CreateProfileFieldCommand struct {
	profileFieldDeps
}

// NewCreateProfileFieldCommand wires the create handler.
func NewCreateProfileFieldCommand(cfg ProfileFieldCommandConfig) *CreateProfileFieldCommand {
	return &CreateProfileFieldCommand{profileFieldDeps: newProfileFieldDeps(cfg)}
}

var _ gocommand.Commander[CreateProfileFieldInput] = (*CreateProfileFieldCommand)(nil)

// Execute authorizes the actor, validates the definition and persists it.
func (c *CreateProfileFieldCommand) Execute(ctx context.Context, input CreateProfileFieldInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileFieldRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	scope, err := c.guard.Enforce(ctx, input.Actor, input.Scope, types.PolicyActionProfileFieldsWrite, uuid.Nil)
	if err != nil {
		return profilefield.MapAuthorizationError(err)
	}

	name := strings.TrimSpace(input.Name)
	if err := profilefield.ValidateDefinition(profilefield.DefinitionInput{Name: name, Hint: input.Hint}); err != nil {
		return err
	}
	if err := profilefield.ValidateFieldType(input.FieldType); err != nil {
		return err
	}
	var data types.FieldData
	if input.FieldType == types.ProfileFieldChoice {
		if data, err = profilefield.ParseChoiceFieldData(input.FieldData); err != nil {
			return err
		}
	}
	if err := requireFeature(ctx, c.gate, scope, input.Actor.ID); err != nil {
		return err
	}

	existing, err := c.repo.FindFieldByName(ctx, name, scope)
	if err != nil {
		return err
	}
	if existing != nil {
		return profilefield.NameTakenError(name)
	}

	created, err := c.repo.CreateField(ctx, types.ProfileField{
		ID:        c.idGen.UUID(),
		Name:      name,
		Hint:      input.Hint,
		Type:      input.FieldType,
		FieldData: data,
		Scope:     scope,
		CreatedBy: input.Actor.ID,
		UpdatedBy: input.Actor.ID,
	})
	if err != nil {
		if errors.Is(err, profilefield.ErrDuplicateName) {
			return profilefield.NameTakenError(name)
		}
		return err
	}
	if input.Result != nil {
		*input.Result = *created
	}
	c.logger.Info("profile field created", "field_id", created.ID, "name", created.Name, "type", int(created.Type))
	c.fieldChanged(ctx, activity.VerbProfileFieldCreated, input.Actor, *created)
	return nil
}
