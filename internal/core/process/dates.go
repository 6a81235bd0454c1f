package process

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// parsePostDate accepts ISO-8601 timestamps (a trailing Z is a UTC offset)
// and falls back to a permissive parse for anything else. Callers treat a
// parse failure as a null date, never as a URL failure.
func parsePostDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "T") {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseAny(raw)
}
