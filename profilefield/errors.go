package profilefield

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-profilefields/pkg/types"
)

const (
	TextCodeNameBlank       = "PROFILE_FIELD_NAME_BLANK"
	TextCodeNameTooLong     = "PROFILE_FIELD_NAME_TOO_LONG"
	TextCodeHintTooLong     = "PROFILE_FIELD_HINT_TOO_LONG"
	TextCodeTypeInvalid     = "PROFILE_FIELD_TYPE_INVALID"
	TextCodeFieldDataBad    = "PROFILE_FIELD_DATA_INVALID"
	TextCodeNameTaken       = "PROFILE_FIELD_NAME_TAKEN"
	TextCodeNotFound        = "PROFILE_FIELD_NOT_FOUND"
	TextCodeValueInvalid    = "PROFILE_FIELD_VALUE_INVALID"
	TextCodeAdminRequired   = "REALM_ADMIN_REQUIRED"
	TextCodeScopeDenied     = "PROFILE_FIELD_SCOPE_DENIED"
	TextCodeFeatureDisabled = "PROFILE_FIELDS_DISABLED"
	TextCodeBadArgument     = "BAD_REQUEST_ARGUMENT"
)

const (
	msgNameBlank      = "Name cannot be blank."
	msgTypeInvalid    = "Invalid field type."
	msgNameTaken      = "A field with that name already exists."
	msgAdminRequired  = "Must be an organization administrator"
	msgScopeDenied    = "Not allowed for this user"
	msgFeatureOff     = "Custom profile fields are disabled for this organization."
	msgNoChoices      = "Field must have at least one choice."
	msgChoiceIDBlank  = "'value' cannot be blank."
	msgFieldDataShape = "field_data is not a dict"
)

// ErrDuplicateName is returned by stores when the realm already holds a field
// with the requested name.
var ErrDuplicateName = errors.New("go-profilefields: profile field name already exists")

// ValidationError builds a user-facing validation failure carrying the exact
// message rendered to clients.
func ValidationError(textCode, msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(textCode)
}

// NotFoundError reports a field id that does not exist in the realm.
func NotFoundError(rawID string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("Field id %s not found.", rawID), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(TextCodeNotFound).
		WithMetadata(map[string]any{"field_id": rawID})
}

// NameTakenError reports a realm-level name collision.
func NameTakenError(name string) *goerrors.Error {
	return ValidationError(TextCodeNameTaken, msgNameTaken).
		WithMetadata(map[string]any{"name": name})
}

// FeatureDisabledError reports that the feature gate turned the workflow off.
func FeatureDisabledError() *goerrors.Error {
	return goerrors.New(msgFeatureOff, goerrors.CategoryAuthz).
		WithCode(goerrors.CodeForbidden).
		WithTextCode(TextCodeFeatureDisabled)
}

// TooLongError formats the length violation message shared by names, hints
// and text values.
func TooLongError(textCode, name string, limit int) *goerrors.Error {
	return ValidationError(textCode, tooLongMessage(name, limit))
}

func tooLongMessage(name string, limit int) string {
	return fmt.Sprintf("%s is too long (limit: %d characters).", name, limit)
}

// MapAuthorizationError converts scope guard failures into rich authz
// errors. Errors that already carry rich metadata pass through untouched.
func MapAuthorizationError(err error) error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return err
	}
	switch {
	case errors.Is(err, types.ErrRealmAdminRequired):
		return goerrors.Wrap(err, goerrors.CategoryAuthz, msgAdminRequired).
			WithCode(goerrors.CodeForbidden).
			WithTextCode(TextCodeAdminRequired)
	case errors.Is(err, types.ErrUnauthorizedScope):
		return goerrors.Wrap(err, goerrors.CategoryAuthz, msgScopeDenied).
			WithCode(goerrors.CodeForbidden).
			WithTextCode(TextCodeScopeDenied)
	case errors.Is(err, types.ErrActorRequired):
		return goerrors.Wrap(err, goerrors.CategoryAuth, "go-profilefields: actor required").
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode("ACTOR_CONTEXT_MISSING")
	}
	return err
}

// Message returns the client-facing message of a rich error, falling back
// to err.Error() for plain errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return err.Error()
}
