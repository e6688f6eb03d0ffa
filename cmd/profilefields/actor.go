package main

import (
	"strings"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-router"
)

const (
	headerActorID  = "X-Actor-ID"
	headerRole     = "X-Actor-Role"
	headerTenantID = "X-Tenant-ID"
	headerOrgID    = "X-Org-ID"
)

// actorHeaders copies the actor forwarded by the gateway into the request
// context in the shape go-auth middleware would store it. Requests without
// an actor header pass through untouched so handlers report the missing
// actor themselves.
func actorHeaders() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			actorID := strings.TrimSpace(c.Header(headerActorID))
			if actorID == "" {
				return next(c)
			}
			actor := &auth.ActorContext{
				ActorID:        actorID,
				Subject:        actorID,
				Role:           strings.TrimSpace(c.Header(headerRole)),
				TenantID:       strings.TrimSpace(c.Header(headerTenantID)),
				OrganizationID: strings.TrimSpace(c.Header(headerOrgID)),
			}
			c.SetContext(auth.WithActorContext(c.Context(), actor))
			return next(c)
		}
	}
}
