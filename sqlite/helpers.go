package sqlite

import (
	"fmt"
	"time"
)

// timestampLayout keeps sub-second precision so consecutive upserts sort correctly.
const timestampLayout = time.RFC3339Nano

// formatTimestamp formats t in UTC for storage.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp parses a stored timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseTimestamp(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
