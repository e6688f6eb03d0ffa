package profilefield

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestRepository_CreateListAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	scope := types.ScopeFilter{TenantID: uuid.New(), OrgID: uuid.New()}
	actor := uuid.New()

	phone, err := repo.CreateField(ctx, types.ProfileField{
		Name:      "Phone number",
		Hint:      "Contact number",
		Type:      types.ProfileFieldShortText,
		FieldData: types.FieldData{"ignored": {Text: "x", Order: "1"}},
		Scope:     scope,
		CreatedBy: actor,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, phone.ID)
	require.Equal(t, 1, phone.Order)
	require.Empty(t, phone.FieldData)

	editor, err := repo.CreateField(ctx, types.ProfileField{
		Name: "Favorite editor",
		Type: types.ProfileFieldChoice,
		FieldData: types.FieldData{
			"vim":   {Text: "Vim", Order: "1"},
			"emacs": {Text: "Emacs", Order: "2"},
		},
		Scope:     scope,
		CreatedBy: actor,
	})
	require.NoError(t, err)
	require.Equal(t, 2, editor.Order)

	_, err = repo.CreateField(ctx, types.ProfileField{
		Name:  "Phone number",
		Type:  types.ProfileFieldShortText,
		Scope: types.ScopeFilter{TenantID: uuid.New()},
	})
	require.NoError(t, err, "names are unique per realm only")

	fields, err := repo.ListFields(ctx, scope)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.Equal(t, "Phone number", fields[0].Name)
	require.Equal(t, "Favorite editor", fields[1].Name)
	require.Equal(t, "Emacs", fields[1].FieldData["emacs"].Text)
	require.Equal(t, actor, fields[1].CreatedBy)

	found, err := repo.FindFieldByName(ctx, "Favorite editor", scope)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, editor.ID, found.ID)

	missing, err := repo.FindFieldByName(ctx, "Favorite editor", types.ScopeFilter{})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRepository_GetFieldIsRealmScoped(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	scope := types.ScopeFilter{TenantID: uuid.New()}

	field, err := repo.CreateField(ctx, types.ProfileField{Name: "Birthday", Type: types.ProfileFieldDate, Scope: scope})
	require.NoError(t, err)

	got, err := repo.GetField(ctx, field.ID, scope)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, types.ProfileFieldDate, got.Type)

	other, err := repo.GetField(ctx, field.ID, types.ScopeFilter{TenantID: uuid.New()})
	require.NoError(t, err)
	require.Nil(t, other)

	unknown, err := repo.GetField(ctx, uuid.New(), scope)
	require.NoError(t, err)
	require.Nil(t, unknown)
}

func TestRepository_UpdateKeepsTypeAndOrder(t *testing.T) {
	ctx := context.Background()
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := newTestRepositoryWithClock(t, clock)
	scope := types.ScopeFilter{OrgID: uuid.New()}
	updater := uuid.New()

	field, err := repo.CreateField(ctx, types.ProfileField{
		Name:      "Favorite editor",
		Type:      types.ProfileFieldChoice,
		FieldData: types.FieldData{"vim": {Text: "Vim", Order: "1"}},
		Scope:     scope,
	})
	require.NoError(t, err)

	updated, err := repo.UpdateField(ctx, types.ProfileField{
		ID:        field.ID,
		Name:      "Preferred editor",
		Type:      types.ProfileFieldShortText,
		Scope:     scope,
		UpdatedBy: updater,
		FieldData: types.FieldData{"nano": {Text: "Nano", Order: "1"}},
	})
	require.NoError(t, err)
	require.Equal(t, "Preferred editor", updated.Name)
	require.Equal(t, "", updated.Hint)
	require.Equal(t, types.ProfileFieldChoice, updated.Type)
	require.Equal(t, field.Order, updated.Order)
	require.True(t, updated.FieldData.Has("nano"))
	require.False(t, updated.FieldData.Has("vim"))
	require.Equal(t, updater, updated.UpdatedBy)
	require.True(t, updated.UpdatedAt.After(field.UpdatedAt))

	_, err = repo.UpdateField(ctx, types.ProfileField{ID: uuid.New(), Name: "x", Scope: scope})
	require.Error(t, err)
}

func TestRepository_UpsertValuesAndDeleteCascade(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	scope := types.ScopeFilter{TenantID: uuid.New()}
	userID := uuid.New()

	phone, err := repo.CreateField(ctx, types.ProfileField{Name: "Phone number", Type: types.ProfileFieldShortText, Scope: scope})
	require.NoError(t, err)
	bio, err := repo.CreateField(ctx, types.ProfileField{Name: "Biography", Type: types.ProfileFieldLongText, Scope: scope})
	require.NoError(t, err)

	written, err := repo.UpsertValues(ctx, []types.ProfileFieldValue{
		{UserID: userID, FieldID: phone.ID, Value: "555-1234", Scope: scope},
		{UserID: userID, FieldID: bio.ID, Value: "Hello", Scope: scope},
	})
	require.NoError(t, err)
	require.Len(t, written, 2)

	written, err = repo.UpsertValues(ctx, []types.ProfileFieldValue{
		{UserID: userID, FieldID: phone.ID, Value: "555-9876", Scope: scope},
	})
	require.NoError(t, err)
	require.Len(t, written, 1)
	require.Equal(t, "555-9876", written[0].Value)

	values, err := repo.ListValues(ctx, userID, scope)
	require.NoError(t, err)
	require.Len(t, values, 2)
	byField := map[uuid.UUID]string{}
	for _, value := range values {
		byField[value.FieldID] = value.Value
	}
	require.Equal(t, "555-9876", byField[phone.ID])
	require.Equal(t, "Hello", byField[bio.ID])

	require.NoError(t, repo.DeleteField(ctx, phone.ID, scope))

	values, err = repo.ListValues(ctx, userID, scope)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, bio.ID, values[0].FieldID)

	gone, err := repo.GetField(ctx, phone.ID, scope)
	require.NoError(t, err)
	require.Nil(t, gone)

	require.Error(t, repo.DeleteField(ctx, phone.ID, scope))
}

func TestRepository_UpsertValuesRequiresIdentifiers(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.UpsertValues(context.Background(), []types.ProfileFieldValue{{FieldID: uuid.New()}})
	require.ErrorIs(t, err, types.ErrUserIDRequired)
	_, err = repo.UpsertValues(context.Background(), []types.ProfileFieldValue{{UserID: uuid.New()}})
	require.ErrorIs(t, err, types.ErrFieldIDRequired)
}

func TestRepository_CacheWrapsFieldStore(t *testing.T) {
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db}, WithCache(true))
	require.NoError(t, err)
	_, ok := repo.fields.(*repositorycache.CachedRepository[*FieldRecord])
	require.True(t, ok)
	_, ok = repo.lister.(*repositorycache.CachedRepository[*FieldRecord])
	require.False(t, ok)
}

func TestRepository_CacheDoesNotDoubleWrap(t *testing.T) {
	db := newTestDB(t)
	applyDDL(t, db)

	service, err := cache.NewCacheService(cache.DefaultConfig())
	require.NoError(t, err)
	cached := repositorycache.New(NewFieldRecordRepository(db), service, cache.NewDefaultKeySerializer())

	repo, err := NewRepository(RepositoryConfig{DB: db, Fields: cached}, WithCache(true))
	require.NoError(t, err)
	stored, ok := repo.fields.(*repositorycache.CachedRepository[*FieldRecord])
	require.True(t, ok)
	require.Same(t, cached, stored)
}

func TestRepository_CachedDeleteIsVisible(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)
	repo, err := NewRepository(RepositoryConfig{DB: db}, WithCache(true))
	require.NoError(t, err)
	scope := types.ScopeFilter{TenantID: uuid.New()}

	field, err := repo.CreateField(ctx, types.ProfileField{Name: "Pronouns", Type: types.ProfileFieldShortText, Scope: scope})
	require.NoError(t, err)

	got, err := repo.GetField(ctx, field.ID, scope)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, repo.DeleteField(ctx, field.ID, scope))

	got, err = repo.GetField(ctx, field.ID, scope)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestNewRepositoryRequiresDB(t *testing.T) {
	_, err := NewRepository(RepositoryConfig{})
	require.Error(t, err)
}

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	return newTestRepositoryWithClock(t, nil)
}

func newTestRepositoryWithClock(t *testing.T, clock types.Clock) *Repository {
	t.Helper()
	db := newTestDB(t)
	applyDDL(t, db)
	repo, err := NewRepository(RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)
	return repo
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

func applyDDL(t *testing.T, db *bun.DB) {
	t.Helper()
	content, err := os.ReadFile("../data/sql/migrations/sqlite/00001_custom_profile_fields.up.sql")
	require.NoError(t, err)
	for _, stmt := range splitStatements(string(content)) {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func splitStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var builder strings.Builder
	var statements []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(builder.String(), ";"))
			builder.Reset()
		} else {
			builder.WriteString(" ")
		}
	}
	if builder.Len() > 0 {
		statements = append(statements, builder.String())
	}
	return statements
}
