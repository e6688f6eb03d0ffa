package command

import (
	"context"
	"fmt"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/google/uuid"
)

// FeatureCustomProfileFields gates definition creation and value updates.
const FeatureCustomProfileFields = "users.custom_profile_fields"

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, scope types.ScopeFilter, userID uuid.UUID) (bool, error) {
	if gate == nil {
		return true, nil
	}
	scopeSet := featureScopeSet(scope, userID)
	if scopeSet == nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeSet(*scopeSet))
}

func requireFeature(ctx context.Context, gate featuregate.FeatureGate, scope types.ScopeFilter, userID uuid.UUID) error {
	enabled, err := featureEnabled(ctx, gate, FeatureCustomProfileFields, scope, userID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFeatureGateFailed, err)
	}
	if !enabled {
		return profilefield.FeatureDisabledError()
	}
	return nil
}

func featureScopeSet(scope types.ScopeFilter, userID uuid.UUID) *featuregate.ScopeSet {
	tenantID := ""
	orgID := ""
	if scope.TenantID != uuid.Nil {
		tenantID = scope.TenantID.String()
	}
	if scope.OrgID != uuid.Nil {
		orgID = scope.OrgID.String()
	}
	user := ""
	if userID != uuid.Nil {
		user = userID.String()
	}
	if tenantID == "" && orgID == "" && user == "" {
		return nil
	}
	return &featuregate.ScopeSet{
		System:   true,
		TenantID: tenantID,
		OrgID:    orgID,
		UserID:   user,
	}
}
