package scope

import (
	"context"
	"testing"

	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindRealm(t *testing.T) {
	tenantA, tenantB := uuid.New(), uuid.New()
	orgA := uuid.New()
	home := types.ScopeFilter{TenantID: tenantA, OrgID: orgA}

	bound, err := BindRealm(home, types.ScopeFilter{})
	require.NoError(t, err)
	assert.Equal(t, tenantA, bound.TenantID)
	assert.Equal(t, orgA, bound.OrgID)

	bound, err = BindRealm(home, types.ScopeFilter{TenantID: tenantA})
	require.NoError(t, err)
	assert.Equal(t, orgA, bound.OrgID)

	_, err = BindRealm(home, types.ScopeFilter{TenantID: tenantB})
	assert.ErrorIs(t, err, types.ErrUnauthorizedScope)

	_, err = BindRealm(home, types.ScopeFilter{TenantID: tenantA, OrgID: uuid.New()})
	assert.ErrorIs(t, err, types.ErrUnauthorizedScope)

	bound, err = BindRealm(types.ScopeFilter{}, types.ScopeFilter{TenantID: tenantB})
	require.NoError(t, err)
	assert.Equal(t, tenantB, bound.TenantID)
}

func TestGuardRejectsForeignRealmForAdmins(t *testing.T) {
	tenantA, tenantB := uuid.New(), uuid.New()
	g := NewGuard(types.PassthroughScopeResolver{}, types.RealmAdminPolicy{})
	admin := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleOrgAdmin}
	ctx := WithHomeRealm(context.Background(), types.ScopeFilter{TenantID: tenantA})

	_, err := g.Enforce(ctx, admin, types.ScopeFilter{TenantID: tenantB}, types.PolicyActionProfileFieldsWrite, uuid.Nil)
	assert.ErrorIs(t, err, types.ErrUnauthorizedScope)

	realm, err := g.Enforce(ctx, admin, types.ScopeFilter{}, types.PolicyActionProfileFieldsWrite, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, tenantA, realm.TenantID)
}

func TestGuardChecksResolverOutput(t *testing.T) {
	tenantA := uuid.New()
	escaping := types.ScopeResolverFunc(func(context.Context, types.ActorRef, types.ScopeFilter) (types.ScopeFilter, error) {
		return types.ScopeFilter{TenantID: uuid.New()}, nil
	})
	g := NewGuard(escaping, nil)
	ctx := WithHomeRealm(context.Background(), types.ScopeFilter{TenantID: tenantA})

	_, err := g.Enforce(ctx, types.ActorRef{ID: uuid.New()}, types.ScopeFilter{}, types.PolicyActionProfileFieldsRead, uuid.Nil)
	assert.ErrorIs(t, err, types.ErrUnauthorizedScope)
}

func TestNopGuardWithoutHomeRealm(t *testing.T) {
	requested := types.ScopeFilter{TenantID: uuid.New()}
	realm, err := NopGuard().Enforce(context.Background(), types.ActorRef{}, requested, types.PolicyActionProfileFieldsWrite, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, requested.TenantID, realm.TenantID)
	assert.NotNil(t, Ensure(nil))
}
