// Package httpapi exposes custom profile fields over go-router using the
// `{"result": ..., "msg": ...}` JSON envelope expected by existing clients.
// Handlers resolve the actor from go-auth middleware, parse form arguments
// and delegate to the command/query layer.
package httpapi
