package schema

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegistryDocumentCompilesProviders(t *testing.T) {
	reg := NewRegistry(WithInfo(router.OpenAPIInfo{
		Title:       "Test Schemas",
		Version:     "v1",
		Description: "Integration snapshot",
	}))

	reg.Register(newStubProvider("profile_field"))
	reg.Register(newStubProvider("activity"))

	doc := reg.Document()
	require.NotNil(t, doc)
	assert.Equal(t, "Test Schemas", doc["info"].(map[string]any)["title"])
	assert.Equal(t, []string{"activity", "profile_field"}, reg.Resources())

	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	_, ok = paths["/profile_fields"]
	assert.True(t, ok, "expected /profile_fields path to be present")
}

func TestRegistryHandlerEmitsNoContentWhenEmpty(t *testing.T) {
	reg := NewRegistry()
	ctx := router.NewMockContext()
	ctx.On("NoContent", http.StatusNoContent).Return(nil)

	require.NoError(t, reg.Handler()(ctx))
	ctx.AssertCalled(t, "NoContent", http.StatusNoContent)
}

func TestRegistryHandlerReturnsJSONPayload(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newStubProvider("profile_field"))

	ctx := router.NewMockContext()
	ctx.On("JSON", http.StatusOK, mock.Anything).Return(nil)

	require.NoError(t, reg.Handler()(ctx))
	ctx.AssertCalled(t, "JSON", http.StatusOK, mock.Anything)
}

func TestRegistryListenerReceivesSnapshot(t *testing.T) {
	reg := NewRegistry()
	called := false
	reg.Subscribe(func(_ context.Context, snap Snapshot) {
		called = true
		require.Equal(t, []string{"activity"}, snap.ResourceNames)
		require.NotNil(t, snap.Document)
		require.Equal(t, "schemas.registry.updated", snap.Reason)
	})

	reg.Register(newStubProvider("activity"))
	assert.True(t, called, "expected listener to be invoked")
}

func TestRegistryRefreshPublishesFieldChanges(t *testing.T) {
	notifier := NewNotifier()
	var published map[string]any
	var publishedActor uuid.UUID
	notifier.Register(func(_ context.Context, actorID uuid.UUID, metadata map[string]any) {
		publishedActor = actorID
		published = metadata
	})
	reg := NewRegistry(WithPublisher(notifier))

	event := types.ProfileFieldEvent{
		FieldID: uuid.New(),
		Action:  "profile_field.created",
		ActorID: uuid.New(),
		Scope:   types.ScopeFilter{TenantID: uuid.New()},
	}
	reg.FieldChangeHook()(context.Background(), event)
	assert.Nil(t, published, "nothing to publish before controllers register")

	reg.Register(newStubProvider("profile_field"))
	var reasons []string
	reg.Subscribe(func(_ context.Context, snap Snapshot) {
		reasons = append(reasons, snap.Reason)
	})
	reg.Refresh(context.Background(), event)

	require.Equal(t, []string{"profile_field.created"}, reasons)
	require.Equal(t, event.ActorID, publishedActor)
	require.Equal(t, "profile_field.created", published["event"])
	require.Equal(t, event.FieldID.String(), published["field_id"])
	require.Equal(t, event.Scope.TenantID.String(), published["tenant_id"])
}

type stubProvider struct {
	metadata router.ResourceMetadata
}

func (s stubProvider) GetMetadata() router.ResourceMetadata {
	return s.metadata
}

func newStubProvider(name string) router.MetadataProvider {
	plural := name + "s"
	return stubProvider{
		metadata: router.ResourceMetadata{
			Name:       name,
			PluralName: plural,
			Schema: router.SchemaMetadata{
				Name: name,
				Properties: map[string]router.PropertyInfo{
					"id": {
						Type:         "string",
						OriginalName: "id",
					},
				},
			},
			Routes: []router.RouteDefinition{
				{
					Method: router.GET,
					Path:   "/" + plural,
					Name:   name + ":list",
				},
			},
		},
	}
}
