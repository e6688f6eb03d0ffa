package command

import (
	"errors"

	"github.com/goliatone/go-profilefields/pkg/types"
)

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = types.ErrActorRequired
	// ErrUserIDRequired occurs when value updates omit the target user.
	ErrUserIDRequired = types.ErrUserIDRequired
	// ErrFieldIDRequired occurs when update/delete commands omit the field id.
	ErrFieldIDRequired = types.ErrFieldIDRequired
	// ErrFeatureGateFailed wraps feature gate resolution failures.
	ErrFeatureGateFailed = errors.New("go-profilefields: feature gate resolution failed")
)
