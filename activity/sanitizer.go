package activity

import (
	"sync"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-profilefields/pkg/types"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns the shared masker with profile value fields
// registered. Profile values are personal data so feeds never expose them
// verbatim.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeRecord masks sensitive values in the activity record data payload.
func SanitizeRecord(mask *masker.Masker, record types.ActivityRecord) types.ActivityRecord {
	if len(record.Data) == 0 {
		return record
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		record.Data = map[string]any{}
		return record
	}

	masked, err := mask.Mask(cloneMap(record.Data))
	if err != nil {
		record.Data = map[string]any{}
		return record
	}
	if data, ok := masked.(map[string]any); ok {
		record.Data = data
	} else {
		record.Data = map[string]any{}
	}
	return record
}

// SanitizeRecords masks sensitive values for every record in the slice.
func SanitizeRecords(mask *masker.Masker, records []types.ActivityRecord) []types.ActivityRecord {
	if len(records) == 0 {
		return records
	}
	out := make([]types.ActivityRecord, 0, len(records))
	for _, record := range records {
		out = append(out, SanitizeRecord(mask, record))
	}
	return out
}

func registerDefaultMaskFields(mask *masker.Masker) {
	mask.RegisterMaskField("value", "filled4")
	mask.RegisterMaskField("Value", "filled4")
	mask.RegisterMaskField("previous_value", "filled4")
}
