package crudsvc

import (
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-profilefields/command"
	"github.com/goliatone/go-profilefields/crudguard"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/query"
)

// ProfileFieldServiceConfig wires dependencies for the field definition
// controller adapter.
type ProfileFieldServiceConfig struct {
	Guard  GuardAdapter
	Create gocommand.Commander[command.CreateProfileFieldInput]
	Update gocommand.Commander[command.UpdateProfileFieldInput]
	Delete gocommand.Commander[command.DeleteProfileFieldInput]
	List   gocommand.Querier[query.ProfileFieldListFilter, []types.ProfileField]
}

// ProfileFieldService adapts the profile field command/query layer to the
// go-crud service interface.
type ProfileFieldService struct {
	guard  GuardAdapter
	create gocommand.Commander[command.CreateProfileFieldInput]
	update gocommand.Commander[command.UpdateProfileFieldInput]
	delete gocommand.Commander[command.DeleteProfileFieldInput]
	list   gocommand.Querier[query.ProfileFieldListFilter, []types.ProfileField]
	logger types.Logger
}

// NewProfileFieldService constructs the adapter.
func NewProfileFieldService(cfg ProfileFieldServiceConfig, opts ...ServiceOption) *ProfileFieldService {
	options := applyOptions(opts)
	return &ProfileFieldService{
		guard:  cfg.Guard,
		create: cfg.Create,
		update: cfg.Update,
		delete: cfg.Delete,
		list:   cfg.List,
		logger: options.logger,
	}
}

func (s *ProfileFieldService) Create(ctx crud.Context, record *profilefield.FieldRecord) (*profilefield.FieldRecord, error) {
	if s.create == nil {
		return nil, missingHandler("profile field create command")
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpCreate,
		Scope:     recordScope(record),
	})
	if err != nil {
		return nil, err
	}
	result := types.ProfileField{}
	input := command.CreateProfileFieldInput{
		Name:      record.Name,
		Hint:      record.Hint,
		FieldType: types.ProfileFieldType(record.FieldType),
		FieldData: record.FieldData.Encode(),
		Scope:     res.Scope,
		Actor:     res.Actor,
		Result:    &result,
	}
	if err := s.create.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	s.logger.Debug("crud profile field created", "field_id", result.ID)
	return profilefield.RecordFromField(result), nil
}

func (s *ProfileFieldService) CreateBatch(ctx crud.Context, records []*profilefield.FieldRecord) ([]*profilefield.FieldRecord, error) {
	created := make([]*profilefield.FieldRecord, 0, len(records))
	for _, record := range records {
		rec, err := s.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

func (s *ProfileFieldService) Update(ctx crud.Context, record *profilefield.FieldRecord) (*profilefield.FieldRecord, error) {
	if s.update == nil {
		return nil, missingHandler("profile field update command")
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpUpdate,
		Scope:     recordScope(record),
		TargetID:  record.ID,
	})
	if err != nil {
		return nil, err
	}
	result := types.ProfileField{}
	input := command.UpdateProfileFieldInput{
		FieldID:   record.ID.String(),
		Name:      record.Name,
		Hint:      record.Hint,
		FieldData: record.FieldData.Encode(),
		Scope:     res.Scope,
		Actor:     res.Actor,
		Result:    &result,
	}
	if err := s.update.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return profilefield.RecordFromField(result), nil
}

func (s *ProfileFieldService) UpdateBatch(crud.Context, []*profilefield.FieldRecord) ([]*profilefield.FieldRecord, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *ProfileFieldService) Delete(ctx crud.Context, record *profilefield.FieldRecord) error {
	if s.delete == nil {
		return missingHandler("profile field delete command")
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpDelete,
		Scope:     recordScope(record),
		TargetID:  record.ID,
	})
	if err != nil {
		return err
	}
	return s.delete.Execute(ctx.UserContext(), command.DeleteProfileFieldInput{
		FieldID: record.ID.String(),
		Scope:   res.Scope,
		Actor:   res.Actor,
	})
}

func (s *ProfileFieldService) DeleteBatch(crud.Context, []*profilefield.FieldRecord) error {
	return notSupported(crud.OpDeleteBatch)
}

func (s *ProfileFieldService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*profilefield.FieldRecord, int, error) {
	if s.list == nil {
		return nil, 0, missingHandler("profile field list query")
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}
	fields, err := s.list.Query(ctx.UserContext(), query.ProfileFieldListFilter{
		Actor: res.Actor,
		Scope: res.Scope,
	})
	if err != nil {
		return nil, 0, err
	}
	total := len(fields)
	fields = paginate(fields, queryInt(ctx, "offset", 0), queryInt(ctx, "limit", 0))
	records := make([]*profilefield.FieldRecord, 0, len(fields))
	for _, field := range fields {
		records = append(records, profilefield.RecordFromField(field))
	}
	return records, total, nil
}

func (s *ProfileFieldService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*profilefield.FieldRecord, error) {
	if s.list == nil {
		return nil, missingHandler("profile field list query")
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
	})
	if err != nil {
		return nil, err
	}
	fields, err := s.list.Query(ctx.UserContext(), query.ProfileFieldListFilter{
		Actor: res.Actor,
		Scope: res.Scope,
	})
	if err != nil {
		return nil, err
	}
	for _, field := range fields {
		if field.ID.String() == id {
			return profilefield.RecordFromField(field), nil
		}
	}
	return nil, profilefield.NotFoundError(id)
}

// recordScope is the realm named by the request body. crudguard refuses it
// when it differs from the actor's realm.
func recordScope(record *profilefield.FieldRecord) types.ScopeFilter {
	if record == nil {
		return types.ScopeFilter{}
	}
	return types.ScopeFilter{
		TenantID: record.TenantID,
		OrgID:    record.OrgID,
	}
}

func missingHandler(name string) error {
	return goerrors.New(name+" missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
}
