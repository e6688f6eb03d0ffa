package types

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestProfileFieldTypeValid(t *testing.T) {
	for _, ft := range ProfileFieldTypes {
		require.True(t, ft.Valid(), ft.String())
	}
	require.False(t, ProfileFieldType(0).Valid())
	require.False(t, ProfileFieldType(6).Valid())
	require.Equal(t, "Unknown", ProfileFieldType(9).String())
}

func TestFieldDataEntriesSortByOrder(t *testing.T) {
	data := FieldData{
		"python":  {Text: "Python", Order: "10"},
		"java":    {Text: "Java", Order: "2"},
		"haskell": {Text: "Haskell", Order: "1"},
	}

	entries := data.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, "haskell", entries[0].ID)
	require.Equal(t, "java", entries[1].ID)
	require.Equal(t, "python", entries[2].ID)
}

func TestFieldDataEntriesFallBackToLexicalOrder(t *testing.T) {
	data := FieldData{
		"b": {Text: "B", Order: "beta"},
		"a": {Text: "A", Order: "alpha"},
		"c": {Text: "C", Order: "alpha"},
	}

	entries := data.Entries()
	require.Equal(t, []string{"a", "c", "b"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestFieldDataEncode(t *testing.T) {
	require.Equal(t, "", FieldData(nil).Encode())

	data := FieldData{"0": {Text: "Yes", Order: "1"}}
	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(data.Encode()), &decoded))
	require.Equal(t, "Yes", decoded["0"]["text"])
	require.Equal(t, "1", decoded["0"]["order"])

	clone := data.Clone()
	clone["1"] = ChoiceOption{Text: "No", Order: "2"}
	require.False(t, data.Has("1"))
	require.True(t, clone.Has("1"))
}

func TestFieldDataEncodeFollowsOrder(t *testing.T) {
	data := FieldData{
		"a": {Text: "A", Order: "2"},
		"b": {Text: "B", Order: "1"},
	}
	require.Equal(t, `{"b":{"text":"B","order":"1"},"a":{"text":"A","order":"2"}}`, data.Encode())

	wrapped, err := json.Marshal(map[string]any{"field_data": data})
	require.NoError(t, err)
	require.Equal(t, `{"field_data":{"b":{"text":"B","order":"1"},"a":{"text":"A","order":"2"}}}`, string(wrapped))

	var decoded FieldData
	require.NoError(t, json.Unmarshal([]byte(data.Encode()), &decoded))
	require.Equal(t, data, decoded)
}

func TestRealmAdminPolicy(t *testing.T) {
	policy := RealmAdminPolicy{}
	ctx := context.Background()
	admin := ActorRef{ID: uuid.New(), Type: "Org_Admin"}
	member := ActorRef{ID: uuid.New(), Type: ActorRoleMember}

	require.NoError(t, policy.Authorize(ctx, PolicyCheck{Actor: admin, Action: PolicyActionProfileFieldsWrite}))
	require.ErrorIs(t, policy.Authorize(ctx, PolicyCheck{Actor: member, Action: PolicyActionProfileFieldsWrite}), ErrRealmAdminRequired)
	require.NoError(t, policy.Authorize(ctx, PolicyCheck{Actor: member, Action: PolicyActionProfileFieldsRead}))

	require.NoError(t, policy.Authorize(ctx, PolicyCheck{Actor: member, Action: PolicyActionProfileDataWrite, TargetID: member.ID}))
	require.ErrorIs(t, policy.Authorize(ctx, PolicyCheck{Actor: member, Action: PolicyActionProfileDataWrite, TargetID: uuid.New()}), ErrUnauthorizedScope)
	require.NoError(t, policy.Authorize(ctx, PolicyCheck{Actor: admin, Action: PolicyActionProfileDataWrite, TargetID: member.ID}))

	require.ErrorIs(t, policy.Authorize(ctx, PolicyCheck{Actor: member, Action: PolicyActionActivityRead}), ErrRealmAdminRequired)
	require.NoError(t, policy.Authorize(ctx, PolicyCheck{Actor: admin, Action: PolicyActionActivityRead}))

	require.ErrorIs(t, policy.Authorize(ctx, PolicyCheck{Action: PolicyActionProfileFieldsRead}), ErrActorRequired)
}

func TestScopeFilterLabels(t *testing.T) {
	id := uuid.New()
	scope := ScopeFilter{TenantID: uuid.New()}
	labeled := scope.WithLabel("Team", id)

	require.Equal(t, id, labeled.Label("team"))
	require.Equal(t, uuid.Nil, scope.Label("team"))
	require.False(t, labeled.IsZero())
	require.True(t, ScopeFilter{}.IsZero())
}
