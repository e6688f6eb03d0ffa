package profilefield

import (
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-profilefields/pkg/types"
)

// DefinitionInput is the normalized shape of a field definition write.
type DefinitionInput struct {
	Name string
	Hint string
}

// ValidateDefinition checks the name and hint of a definition. Name blank
// wins over name length, which wins over hint length.
func ValidateDefinition(input DefinitionInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ValidationError(TextCodeNameBlank, msgNameBlank)
	}
	if err := validation.Validate(input.Name,
		validation.RuneLength(0, types.ProfileFieldNameMaxLength).
			Error(tooLongMessage("name", types.ProfileFieldNameMaxLength)),
	); err != nil {
		return ValidationError(TextCodeNameTooLong, err.Error())
	}
	if err := validation.Validate(input.Hint,
		validation.RuneLength(0, types.ProfileFieldHintMaxLength).
			Error(tooLongMessage("hint", types.ProfileFieldHintMaxLength)),
	); err != nil {
		return ValidationError(TextCodeHintTooLong, err.Error())
	}
	return nil
}

// ValidateFieldType rejects unknown field type codes.
func ValidateFieldType(fieldType types.ProfileFieldType) error {
	if !fieldType.Valid() {
		return ValidationError(TextCodeTypeInvalid, msgTypeInvalid).
			WithMetadata(map[string]any{"field_type": int(fieldType)})
	}
	return nil
}

// ValidateValue checks a user supplied value against the field definition
// and returns the string to persist.
func ValidateValue(field types.ProfileField, value any) (string, error) {
	str, ok := value.(string)
	if !ok {
		if field.Type == types.ProfileFieldChoice {
			return "", valueError(field, fmt.Sprintf("'%v' is not a valid choice for '%s'.", value, field.Name))
		}
		return "", valueError(field, fmt.Sprintf("%s is not a string", field.Name))
	}

	var rules []validation.Rule
	switch field.Type {
	case types.ProfileFieldShortText:
		rules = textRules(field.Name, types.ShortTextMaxLength)
	case types.ProfileFieldLongText:
		rules = textRules(field.Name, types.LongTextMaxLength)
	case types.ProfileFieldDate:
		msg := fmt.Sprintf("%s is not a date", field.Name)
		rules = []validation.Rule{
			validation.Required.Error(msg),
			validation.Date(types.ProfileDateLayout).Error(msg),
		}
	case types.ProfileFieldURL:
		msg := fmt.Sprintf("%s is not a URL", field.Name)
		rules = []validation.Rule{
			validation.Required.Error(msg),
			is.RequestURL.Error(msg),
			is.URL.Error(msg),
			validation.By(absoluteURL(msg)),
		}
	case types.ProfileFieldChoice:
		if !field.FieldData.Has(str) {
			return "", valueError(field, fmt.Sprintf("'%s' is not a valid choice for '%s'.", str, field.Name))
		}
		return str, nil
	default:
		return "", ValidationError(TextCodeTypeInvalid, msgTypeInvalid)
	}

	if err := validation.Validate(str, rules...); err != nil {
		return "", valueError(field, err.Error())
	}
	return str, nil
}

func textRules(name string, limit int) []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(0, limit).Error(tooLongMessage(name, limit)),
	}
}

func absoluteURL(msg string) validation.RuleFunc {
	return func(v any) error {
		s, _ := v.(string)
		parsed, err := url.Parse(s)
		if err != nil || parsed.Host == "" {
			return validation.NewError("validation_is_url", msg)
		}
		switch strings.ToLower(parsed.Scheme) {
		case "http", "https", "ftp", "ftps":
			return nil
		}
		return validation.NewError("validation_is_url", msg)
	}
}

func valueError(field types.ProfileField, msg string) *goerrors.Error {
	return ValidationError(TextCodeValueInvalid, msg).
		WithMetadata(map[string]any{
			"field_id":   field.ID.String(),
			"field_name": field.Name,
		})
}
