package service_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/goliatone/go-profilefields/activity"
	"github.com/goliatone/go-profilefields/command"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/goliatone/go-profilefields/query"
	"github.com/goliatone/go-profilefields/service"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestService_ProfileFieldLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.True(t, svc.Ready())
	require.NoError(t, svc.HealthCheck(ctx))

	realm := types.ScopeFilter{TenantID: uuid.New()}
	admin := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOrgAdmin}
	member := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleMember}

	var phone types.ProfileField
	require.NoError(t, svc.Commands().CreateProfileField.Execute(ctx, command.CreateProfileFieldInput{
		Name:      "Phone number",
		Hint:      "Contact number",
		FieldType: types.ProfileFieldShortText,
		Scope:     realm,
		Actor:     admin,
		Result:    &phone,
	}))
	var editor types.ProfileField
	require.NoError(t, svc.Commands().CreateProfileField.Execute(ctx, command.CreateProfileFieldInput{
		Name:      "Favorite editor",
		FieldType: types.ProfileFieldChoice,
		FieldData: `{"vim":{"text":"Vim","order":"1"},"emacs":{"text":"Emacs","order":"2"}}`,
		Scope:     realm,
		Actor:     admin,
		Result:    &editor,
	}))

	fields, err := svc.Queries().ProfileFields.Query(ctx, query.ProfileFieldListFilter{Actor: member, Scope: realm})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.Equal(t, "Phone number", fields[0].Name)
	require.Equal(t, "Favorite editor", fields[1].Name)

	err = svc.Commands().UpdateProfileData.Execute(ctx, command.UpdateProfileDataInput{
		Items: []command.ProfileDataItem{
			{FieldID: phone.ID.String(), Value: "555-1234"},
			{FieldID: editor.ID.String(), Value: "nano"},
		},
		Scope: realm,
		Actor: member,
	})
	require.Equal(t, "'nano' is not a valid choice for 'Favorite editor'.", profilefield.Message(err))

	entries, err := svc.Queries().ProfileData.Query(ctx, query.ProfileDataFilter{Actor: member, Scope: realm})
	require.NoError(t, err)
	for _, entry := range entries {
		require.Nil(t, entry.Value, "failed updates must not write partial data")
	}

	require.NoError(t, svc.Commands().UpdateProfileData.Execute(ctx, command.UpdateProfileDataInput{
		Items: []command.ProfileDataItem{
			{FieldID: phone.ID.String(), Value: "555-1234"},
			{FieldID: editor.ID.String(), Value: "emacs"},
		},
		Scope: realm,
		Actor: member,
	}))

	entries, err = svc.Queries().ProfileData.Query(ctx, query.ProfileDataFilter{Actor: member, Scope: realm})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "555-1234", *entries[0].Value)
	require.Equal(t, "emacs", *entries[1].Value)

	require.NoError(t, svc.Commands().DeleteProfileField.Execute(ctx, command.DeleteProfileFieldInput{
		FieldID: phone.ID.String(),
		Scope:   realm,
		Actor:   admin,
	}))
	entries, err = svc.Queries().ProfileData.Query(ctx, query.ProfileDataFilter{Actor: member, Scope: realm})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, editor.ID, entries[0].Field.ID)

	feed, err := svc.Queries().ActivityFeed.Query(ctx, types.ActivityFilter{
		Actor:      admin,
		Scope:      realm,
		Pagination: types.Pagination{Limit: 20},
	})
	require.NoError(t, err)
	verbs := make([]string, 0, len(feed.Records))
	for _, record := range feed.Records {
		verbs = append(verbs, record.Verb)
		if record.Verb == activity.VerbProfileDataUpdated {
			require.NotEqual(t, "555-1234", record.Data["value"])
		}
	}
	sort.Strings(verbs)
	require.Equal(t, []string{
		activity.VerbProfileDataUpdated,
		activity.VerbProfileDataUpdated,
		activity.VerbProfileFieldCreated,
		activity.VerbProfileFieldCreated,
		activity.VerbProfileFieldDeleted,
	}, verbs)

	_, err = svc.Queries().ActivityFeed.Query(ctx, types.ActivityFilter{Actor: member, Scope: realm})
	require.Equal(t, "Must be an organization administrator", profilefield.Message(err))
}

func TestService_RealmIsolation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	realmA := types.ScopeFilter{TenantID: uuid.New()}
	realmB := types.ScopeFilter{TenantID: uuid.New()}
	admin := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleTenantAdmin}

	var field types.ProfileField
	require.NoError(t, svc.Commands().CreateProfileField.Execute(ctx, command.CreateProfileFieldInput{
		Name:      "Birthday",
		FieldType: types.ProfileFieldDate,
		Scope:     realmA,
		Actor:     admin,
		Result:    &field,
	}))

	require.NoError(t, svc.Commands().CreateProfileField.Execute(ctx, command.CreateProfileFieldInput{
		Name:      "Birthday",
		FieldType: types.ProfileFieldDate,
		Scope:     realmB,
		Actor:     admin,
	}), "the same name is free in another realm")

	err := svc.Commands().DeleteProfileField.Execute(ctx, command.DeleteProfileFieldInput{
		FieldID: field.ID.String(),
		Scope:   realmB,
		Actor:   admin,
	})
	require.Equal(t, "Field id "+field.ID.String()+" not found.", profilefield.Message(err))

	fields, err := svc.Queries().ProfileFields.Query(ctx, query.ProfileFieldListFilter{Actor: admin, Scope: realmA})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	require.Equal(t, field.ID, fields[0].ID)
}

func TestService_HealthCheckReportsMissingDependencies(t *testing.T) {
	svc := service.New(service.Config{})
	require.False(t, svc.Ready())
	require.ErrorIs(t, svc.HealthCheck(context.Background()), types.ErrMissingProfileFieldRepository)
	require.NotNil(t, svc.ScopeGuard())
}

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	db := newTestDB(t)
	applyMigrations(t, db)

	fields, err := profilefield.NewRepository(profilefield.RepositoryConfig{DB: db}, profilefield.WithCache(true))
	require.NoError(t, err)
	activities, err := activity.NewRepository(activity.RepositoryConfig{DB: db})
	require.NoError(t, err)

	return service.New(service.Config{
		ProfileFieldRepository: fields,
		ActivitySink:           activities,
	})
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyMigrations(t *testing.T, db *bun.DB) {
	t.Helper()
	files, err := filepath.Glob("../data/sql/migrations/sqlite/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)
	for _, file := range files {
		content, err := os.ReadFile(file)
		require.NoError(t, err)
		for _, stmt := range strings.Split(string(content), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			_, err := db.Exec(stmt)
			require.NoError(t, err)
		}
	}
}
