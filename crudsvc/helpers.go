package crudsvc

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-crud"
	"github.com/google/uuid"
)

func queryUUID(ctx crud.Context, key string) uuid.UUID {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func queryStringSlice(ctx crud.Context, key string) []string {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func queryInt(ctx crud.Context, key string, def int) int {
	if value := ctx.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return def
}

// paginate slices an in-memory listing. A non-positive limit returns
// everything after offset.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
