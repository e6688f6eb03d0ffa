package activity

import (
	"testing"

	"github.com/goliatone/go-profilefields/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRecordMasksProfileValues(t *testing.T) {
	record := types.ActivityRecord{
		Verb: VerbProfileDataUpdated,
		Data: map[string]any{
			"field_name": "Phone number",
			"value":      "555-123-4567",
		},
	}
	out := SanitizeRecord(DefaultMasker(), record)
	require.NotEqual(t, "555-123-4567", out.Data["value"])
	require.Equal(t, "Phone number", out.Data["field_name"])
	require.Equal(t, "555-123-4567", record.Data["value"], "input must not be mutated")
}

func TestSanitizeRecordsKeepsEmptyPayloads(t *testing.T) {
	records := []types.ActivityRecord{{Verb: VerbProfileFieldDeleted}}
	out := SanitizeRecords(nil, records)
	require.Len(t, out, 1)
	require.Empty(t, out[0].Data)
}
