package order

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatModifierIDs serializes a modifier selection as "12,15,18". No selection gives "".
func FormatModifierIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ParseModifierIDs is the inverse of FormatModifierIDs. Blank entries are skipped.
func ParseModifierIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int64{}, nil
	}
	fields := strings.Split(s, ",")
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("modifier list %q: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// nullableModifiers maps an empty selection to SQL NULL.
func nullableModifiers(ids []int64) *string {
	if len(ids) == 0 {
		return nil
	}
	s := FormatModifierIDs(ids)
	return &s
}
