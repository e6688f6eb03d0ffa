package profilefield

import (
	"fmt"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/tidwall/gjson"
)

var choiceOptionKeys = []string{"text", "order"}

// ParseChoiceFieldData validates the raw field_data payload of a choice field
// and returns the decoded options. Options are checked in the order they
// appear in the payload so the first offending entry is the one reported.
func ParseChoiceFieldData(raw string) (types.FieldData, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = "{}"
	}
	if !gjson.Valid(trimmed) {
		return nil, ValidationError(TextCodeFieldDataBad, fmt.Sprintf("Bad value for 'field_data': %s", raw))
	}
	root := gjson.Parse(trimmed)
	if !root.IsObject() {
		return nil, ValidationError(TextCodeFieldDataBad, msgFieldDataShape)
	}

	data := types.FieldData{}
	var failure *goerrors.Error
	root.ForEach(func(key, option gjson.Result) bool {
		id := key.String()
		if strings.TrimSpace(id) == "" {
			failure = ValidationError(TextCodeFieldDataBad, msgChoiceIDBlank)
			return false
		}
		parsed, err := parseChoiceOption(option)
		if err != nil {
			failure = err
			return false
		}
		data[id] = parsed
		return true
	})
	if failure != nil {
		return nil, failure
	}
	if len(data) == 0 {
		return nil, ValidationError(TextCodeFieldDataBad, msgNoChoices)
	}
	return data, nil
}

func parseChoiceOption(option gjson.Result) (types.ChoiceOption, *goerrors.Error) {
	if !option.IsObject() {
		return types.ChoiceOption{}, ValidationError(TextCodeFieldDataBad, msgFieldDataShape)
	}
	values := option.Map()
	for _, key := range choiceOptionKeys {
		if _, ok := values[key]; !ok {
			return types.ChoiceOption{}, ValidationError(TextCodeFieldDataBad, fmt.Sprintf("%s key is missing from field_data", key))
		}
	}
	if len(values) > len(choiceOptionKeys) {
		extra := make([]string, 0, len(values))
		for key := range values {
			if key != "text" && key != "order" {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		return types.ChoiceOption{}, ValidationError(TextCodeFieldDataBad, "Unexpected arguments: "+strings.Join(extra, ", "))
	}

	out := types.ChoiceOption{}
	for _, key := range choiceOptionKeys {
		value := values[key]
		if value.Type != gjson.String {
			return types.ChoiceOption{}, ValidationError(TextCodeFieldDataBad, fmt.Sprintf("field_data[%q] is not a string", key))
		}
		if strings.TrimSpace(value.Str) == "" {
			return types.ChoiceOption{}, ValidationError(TextCodeFieldDataBad, fmt.Sprintf("field_data[%q] cannot be blank.", key))
		}
		if key == "text" {
			out.Text = value.Str
		} else {
			out.Order = value.Str
		}
	}
	return out, nil
}
