// Package command exposes go-command compatible handlers for custom profile
// fields: definition create/update/delete and per-user value updates.
// Commands are wired by the service layer and can be invoked by any transport.
package command
