package httpapi

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-profilefields/command"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/goliatone/go-profilefields/profilefield"
	"github.com/tidwall/gjson"
)

func missingArgument(name string) error {
	return profilefield.ValidationError(profilefield.TextCodeBadArgument, fmt.Sprintf("Missing '%s' argument", name))
}

func invalidJSONArgument(name string) error {
	return profilefield.ValidationError(profilefield.TextCodeBadArgument, fmt.Sprintf("Argument \"%s\" is not valid JSON.", name))
}

// ParseFieldType decodes the JSON encoded field_type argument.
func ParseFieldType(raw string) (types.ProfileFieldType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, missingArgument("field_type")
	}
	if !gjson.Valid(raw) {
		return 0, invalidJSONArgument("field_type")
	}
	parsed := gjson.Parse(raw)
	if parsed.Type != gjson.Number || parsed.Num != float64(int64(parsed.Num)) {
		return 0, profilefield.ValidationError(profilefield.TextCodeBadArgument, "field_type is not an integer")
	}
	return types.ProfileFieldType(parsed.Int()), nil
}

// ParseProfileData decodes the data argument of a profile data update: a
// JSON list of {"id": ..., "value": ...} objects. Values keep their decoded
// JSON type so the field validators can reject non-strings.
func ParseProfileData(raw string) ([]command.ProfileDataItem, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, missingArgument("data")
	}
	if !gjson.Valid(raw) {
		return nil, invalidJSONArgument("data")
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return nil, profilefield.ValidationError(profilefield.TextCodeBadArgument, "data is not a list")
	}
	entries := root.Array()
	items := make([]command.ProfileDataItem, 0, len(entries))
	for i, entry := range entries {
		if !entry.IsObject() {
			return nil, profilefield.ValidationError(profilefield.TextCodeBadArgument, fmt.Sprintf("data[%d] is not a dict", i))
		}
		values := entry.Map()
		id, ok := values["id"]
		if !ok {
			return nil, profilefield.ValidationError(profilefield.TextCodeBadArgument, fmt.Sprintf("id key is missing from data[%d]", i))
		}
		value, ok := values["value"]
		if !ok {
			return nil, profilefield.ValidationError(profilefield.TextCodeBadArgument, fmt.Sprintf("value key is missing from data[%d]", i))
		}
		items = append(items, command.ProfileDataItem{
			FieldID: id.String(),
			Value:   value.Value(),
		})
	}
	return items, nil
}
