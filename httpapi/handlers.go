package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-profilefields/command"
	"github.com/goliatone/go-profilefields/pkg/authctx"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/query"
	"github.com/goliatone/go-profilefields/scope"
	"github.com/goliatone/go-profilefields/service"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ActorResolver extracts the acting user and realm from a request.
type ActorResolver func(router.Context) (types.ActorRef, types.ScopeFilter, error)

// Config wires the handlers to the command and query layer.
type Config struct {
	Create      gocommand.Commander[command.CreateProfileFieldInput]
	Update      gocommand.Commander[command.UpdateProfileFieldInput]
	Delete      gocommand.Commander[command.DeleteProfileFieldInput]
	UpdateData  gocommand.Commander[command.UpdateProfileDataInput]
	ListFields  gocommand.Querier[query.ProfileFieldListFilter, []types.ProfileField]
	ProfileData gocommand.Querier[query.ProfileDataFilter, []types.ProfileDataEntry]
	Guard       scope.Guard
	Resolver    ActorResolver
	Logger      types.Logger
}

// ConfigFromService fills a Config from a service facade.
func ConfigFromService(svc *service.Service) Config {
	commands := svc.Commands()
	queries := svc.Queries()
	return Config{
		Create:      commands.CreateProfileField,
		Update:      commands.UpdateProfileField,
		Delete:      commands.DeleteProfileField,
		UpdateData:  commands.UpdateProfileData,
		ListFields:  queries.ProfileFields,
		ProfileData: queries.ProfileData,
		Guard:       svc.ScopeGuard(),
		Logger:      svc.Logger(),
	}
}

// Handlers serves the realm profile field endpoints.
type Handlers struct {
	cfg Config
}

// NewHandlers validates cfg and applies defaults.
func NewHandlers(cfg Config) (*Handlers, error) {
	if cfg.Create == nil || cfg.Update == nil || cfg.Delete == nil || cfg.UpdateData == nil {
		return nil, errors.New("go-profilefields: httpapi commands required")
	}
	if cfg.ListFields == nil || cfg.ProfileData == nil {
		return nil, errors.New("go-profilefields: httpapi queries required")
	}
	cfg.Guard = scope.Ensure(cfg.Guard)
	if cfg.Resolver == nil {
		cfg.Resolver = authctx.ResolveRouterActor
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return &Handlers{cfg: cfg}, nil
}

// Register mounts the endpoints on r. Middleware, typically the go-auth
// protected route, wraps every endpoint.
func Register[T any](r router.Router[T], h *Handlers, mw ...router.MiddlewareFunc) {
	realm := r.Group("/json/realm")
	realm.Get("/profile_fields", h.ListFields, mw...)
	realm.Post("/profile_fields", h.CreateField, mw...)
	realm.Patch("/profile_fields/:id", h.UpdateField, mw...)
	realm.Delete("/profile_fields/:id", h.DeleteField, mw...)

	me := r.Group("/json/users/me")
	me.Get("/profile_data", h.ProfileData, mw...)
	me.Patch("/profile_data", h.UpdateProfileData, mw...)
}

// CreateFieldForm holds the form arguments of a field creation.
type CreateFieldForm struct {
	Name      string
	Hint      string
	FieldType string
	FieldData string
}

// UpdateFieldForm holds the form arguments of a field edit.
type UpdateFieldForm struct {
	Name      string
	Hint      string
	FieldData string
}

func (h *Handlers) ListFields(c router.Context) error {
	actor, realm, err := h.cfg.Resolver(c)
	if err != nil {
		return respond(c, h.cfg.Logger, nil, err)
	}
	payload, err := h.listFields(c.Context(), actor, realm)
	return respond(c, h.cfg.Logger, payload, err)
}

func (h *Handlers) CreateField(c router.Context) error {
	actor, realm, err := h.cfg.Resolver(c)
	if err != nil {
		return respond(c, h.cfg.Logger, nil, err)
	}
	payload, err := h.createField(c.Context(), actor, realm, CreateFieldForm{
		Name:      c.FormValue("name"),
		Hint:      c.FormValue("hint"),
		FieldType: c.FormValue("field_type"),
		FieldData: c.FormValue("field_data"),
	})
	return respond(c, h.cfg.Logger, payload, err)
}

func (h *Handlers) UpdateField(c router.Context) error {
	actor, realm, err := h.cfg.Resolver(c)
	if err != nil {
		return respond(c, h.cfg.Logger, nil, err)
	}
	err = h.updateField(c.Context(), actor, realm, c.Param("id", ""), UpdateFieldForm{
		Name:      c.FormValue("name"),
		Hint:      c.FormValue("hint"),
		FieldData: c.FormValue("field_data"),
	})
	return respond(c, h.cfg.Logger, nil, err)
}

func (h *Handlers) DeleteField(c router.Context) error {
	actor, realm, err := h.cfg.Resolver(c)
	if err != nil {
		return respond(c, h.cfg.Logger, nil, err)
	}
	err = h.deleteField(c.Context(), actor, realm, c.Param("id", ""))
	return respond(c, h.cfg.Logger, nil, err)
}

func (h *Handlers) ProfileData(c router.Context) error {
	actor, realm, err := h.cfg.Resolver(c)
	if err != nil {
		return respond(c, h.cfg.Logger, nil, err)
	}
	payload, err := h.profileData(c.Context(), actor, realm)
	return respond(c, h.cfg.Logger, payload, err)
}

func (h *Handlers) UpdateProfileData(c router.Context) error {
	actor, realm, err := h.cfg.Resolver(c)
	if err != nil {
		return respond(c, h.cfg.Logger, nil, err)
	}
	err = h.updateProfileData(c.Context(), actor, realm, c.FormValue("data"))
	return respond(c, h.cfg.Logger, nil, err)
}

func (h *Handlers) listFields(ctx context.Context, actor types.ActorRef, realm types.ScopeFilter) (map[string]any, error) {
	fields, err := h.cfg.ListFields.Query(ctx, query.ProfileFieldListFilter{Actor: actor, Scope: realm})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, fieldPayload(field))
	}
	return map[string]any{"custom_fields": out}, nil
}

// requireAdmin runs ahead of argument parsing so non-admins learn about the
// permission failure before any malformed input.
func (h *Handlers) requireAdmin(ctx context.Context, actor types.ActorRef, realm types.ScopeFilter) error {
	_, err := h.cfg.Guard.Enforce(ctx, actor, realm, types.PolicyActionProfileFieldsWrite, uuid.Nil)
	return profilefield.MapAuthorizationError(err)
}

func (h *Handlers) createField(ctx context.Context, actor types.ActorRef, realm types.ScopeFilter, form CreateFieldForm) (map[string]any, error) {
	if err := h.requireAdmin(ctx, actor, realm); err != nil {
		return nil, err
	}
	fieldType, err := ParseFieldType(form.FieldType)
	if err != nil {
		return nil, err
	}
	var created types.ProfileField
	if err := h.cfg.Create.Execute(ctx, command.CreateProfileFieldInput{
		Name:      form.Name,
		Hint:      form.Hint,
		FieldType: fieldType,
		FieldData: form.FieldData,
		Scope:     realm,
		Actor:     actor,
		Result:    &created,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"id": created.ID.String()}, nil
}

func (h *Handlers) updateField(ctx context.Context, actor types.ActorRef, realm types.ScopeFilter, id string, form UpdateFieldForm) error {
	if err := h.requireAdmin(ctx, actor, realm); err != nil {
		return err
	}
	return h.cfg.Update.Execute(ctx, command.UpdateProfileFieldInput{
		FieldID:   id,
		Name:      form.Name,
		Hint:      form.Hint,
		FieldData: form.FieldData,
		Scope:     realm,
		Actor:     actor,
	})
}

func (h *Handlers) deleteField(ctx context.Context, actor types.ActorRef, realm types.ScopeFilter, id string) error {
	if err := h.requireAdmin(ctx, actor, realm); err != nil {
		return err
	}
	return h.cfg.Delete.Execute(ctx, command.DeleteProfileFieldInput{
		FieldID: id,
		Scope:   realm,
		Actor:   actor,
	})
}

func (h *Handlers) profileData(ctx context.Context, actor types.ActorRef, realm types.ScopeFilter) (map[string]any, error) {
	entries, err := h.cfg.ProfileData.Query(ctx, query.ProfileDataFilter{Actor: actor, Scope: realm, UserID: actor.ID})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		out = append(out, profileDataPayload(entry))
	}
	return map[string]any{"profile_data": out}, nil
}

func (h *Handlers) updateProfileData(ctx context.Context, actor types.ActorRef, realm types.ScopeFilter, raw string) error {
	items, err := ParseProfileData(raw)
	if err != nil {
		return err
	}
	return h.cfg.UpdateData.Execute(ctx, command.UpdateProfileDataInput{
		UserID: actor.ID,
		Items:  items,
		Scope:  realm,
		Actor:  actor,
	})
}
