package profilefield

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"
)

func TestParseChoiceFieldDataErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		msg  string
	}{
		{name: "not json", raw: "invalid", msg: "Bad value for 'field_data': invalid"},
		{name: "not an object", raw: `["a"]`, msg: "field_data is not a dict"},
		{name: "option not an object", raw: `{"python":["1"],"java":["2"]}`, msg: "field_data is not a dict"},
		{name: "missing order", raw: `{"python":{"text":"Python"},"java":{"text":"Java"}}`, msg: "order key is missing from field_data"},
		{name: "missing text", raw: `{"python":{"order":"1"}}`, msg: "text key is missing from field_data"},
		{name: "blank order", raw: `{"python":{"text":"Python","order":""},"java":{"text":"Java","order":"2"}}`, msg: `field_data["order"] cannot be blank.`},
		{name: "blank id", raw: `{"":{"text":"Python","order":"1"},"java":{"text":"Java","order":"2"}}`, msg: "'value' cannot be blank."},
		{name: "order not a string", raw: `{"python":{"text":"Python","order":1},"java":{"text":"Java","order":"2"}}`, msg: `field_data["order"] is not a string`},
		{name: "unexpected keys", raw: `{"python":{"text":"Python","order":"1","color":"red"}}`, msg: "Unexpected arguments: color"},
		{name: "empty", raw: `{}`, msg: "Field must have at least one choice."},
		{name: "absent", raw: "", msg: "Field must have at least one choice."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseChoiceFieldData(tc.raw)
			require.Error(t, err)
			require.Equal(t, tc.msg, Message(err))

			var richErr *goerrors.Error
			require.True(t, goerrors.As(err, &richErr))
			require.Equal(t, goerrors.CategoryValidation, richErr.Category)
			require.Equal(t, TextCodeFieldDataBad, richErr.TextCode)
		})
	}
}

func TestParseChoiceFieldDataReportsFirstOffendingOption(t *testing.T) {
	_, err := ParseChoiceFieldData(`{"a":{"text":"A","order":1},"b":{"text":"B"}}`)
	require.Equal(t, `field_data["order"] is not a string`, Message(err))

	_, err = ParseChoiceFieldData(`{"b":{"text":"B"},"a":{"text":"A","order":1}}`)
	require.Equal(t, "order key is missing from field_data", Message(err))
}

func TestParseChoiceFieldDataSuccess(t *testing.T) {
	data, err := ParseChoiceFieldData(`{"python":{"text":"Python","order":"1"},"java":{"text":"Java","order":"2"}}`)
	require.NoError(t, err)
	require.Len(t, data, 2)
	require.Equal(t, "Python", data["python"].Text)
	require.Equal(t, "2", data["java"].Order)

	entries := data.Entries()
	require.Equal(t, "python", entries[0].ID)
	require.Equal(t, "java", entries[1].ID)
}
