package authctx

import (
	"context"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func TestResolveActorUsesStoredActorContext(t *testing.T) {
	actorID := uuid.New()
	tenant := uuid.New()
	org := uuid.New()
	ctx := auth.WithActorContext(context.Background(), &auth.ActorContext{
		ActorID:        actorID.String(),
		Role:           "org_admin",
		TenantID:       tenant.String(),
		OrganizationID: org.String(),
	})

	ref, scope, err := ResolveActor(ctx)
	if err != nil {
		t.Fatalf("ResolveActor returned error: %v", err)
	}
	if ref.ID != actorID {
		t.Fatalf("expected actor %s, got %s", actorID, ref.ID)
	}
	if !ref.IsRealmAdmin() {
		t.Fatalf("expected org_admin to be a realm admin")
	}
	if scope.TenantID != tenant || scope.OrgID != org {
		t.Fatalf("unexpected scope %+v", scope)
	}
}

func TestResolveActorContextFallsBackToClaims(t *testing.T) {
	actorID := uuid.NewString()
	tenantID := uuid.NewString()
	ctx := auth.WithClaimsContext(context.Background(), &stubClaims{
		subject:  actorID,
		uid:      actorID,
		role:     "member",
		metadata: map[string]any{"tenant_id": tenantID},
	})

	actual, err := ResolveActorContext(ctx)
	if err != nil {
		t.Fatalf("expected fallback to claims, got error: %v", err)
	}
	if actual.ActorID != actorID {
		t.Fatalf("expected actor %s, got %s", actorID, actual.ActorID)
	}
	if actual.TenantID != tenantID {
		t.Fatalf("expected tenant %s, got %s", tenantID, actual.TenantID)
	}
}

func TestResolveActorMissingReturnsRichError(t *testing.T) {
	_, _, err := ResolveActor(context.Background())
	if err == nil {
		t.Fatal("expected error when context lacks auth metadata")
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		t.Fatalf("expected go-errors.Error, got %T", err)
	}
	if richErr.TextCode != textCodeActorMissing {
		t.Fatalf("expected text code %s, got %s", textCodeActorMissing, richErr.TextCode)
	}
}

func TestActorRefFromActorContextInvalidID(t *testing.T) {
	_, err := ActorRefFromActorContext(&auth.ActorContext{ActorID: "not-a-uuid"})
	if err == nil {
		t.Fatal("expected error for invalid actor id")
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		t.Fatalf("expected go-errors.Error, got %T", err)
	}
	if richErr.TextCode != textCodeActorInvalid {
		t.Fatalf("expected text code %s, got %s", textCodeActorInvalid, richErr.TextCode)
	}
}

func TestActorRefFromActorContextFallsBackToSubject(t *testing.T) {
	id := uuid.New()
	ref, err := ActorRefFromActorContext(&auth.ActorContext{ActorID: id.String(), Subject: "owner"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Type != "owner" {
		t.Fatalf("expected subject fallback, got %q", ref.Type)
	}
}

func TestScopeFromActorContextIgnoresInvalidIDs(t *testing.T) {
	org := uuid.New()
	scope := ScopeFromActorContext(&auth.ActorContext{
		TenantID:       "nope",
		OrganizationID: org.String(),
	})
	if scope.TenantID != uuid.Nil {
		t.Fatalf("expected nil tenant, got %s", scope.TenantID)
	}
	if scope.OrgID != org {
		t.Fatalf("expected org %s, got %s", org, scope.OrgID)
	}
}

type stubClaims struct {
	subject  string
	uid      string
	role     string
	metadata map[string]any
	res      map[string]string
}

func (s *stubClaims) Subject() string                  { return s.subject }
func (s *stubClaims) UserID() string                   { return s.uid }
func (s *stubClaims) Role() string                     { return s.role }
func (s *stubClaims) CanRead(string) bool              { return true }
func (s *stubClaims) CanEdit(string) bool              { return true }
func (s *stubClaims) CanCreate(string) bool            { return true }
func (s *stubClaims) CanDelete(string) bool            { return true }
func (s *stubClaims) HasRole(role string) bool         { return s.role == role }
func (s *stubClaims) IsAtLeast(string) bool            { return true }
func (s *stubClaims) Expires() time.Time               { return time.Time{} }
func (s *stubClaims) IssuedAt() time.Time              { return time.Time{} }
func (s *stubClaims) ResourceRoles() map[string]string { return s.res }
func (s *stubClaims) ClaimsMetadata() map[string]any   { return s.metadata }
