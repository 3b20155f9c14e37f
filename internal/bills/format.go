package bills

import (
	"fmt"
	"time"
)

// DateLayout is the layout normalized dates are emitted in. ISO dates compare
// the same lexicographically and chronologically, which is what the Bills
// view relies on when it sorts.
const DateLayout = "2006-01-02"

// dateLayouts are the raw date encodings accepted from the backend.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// FormatDate normalizes a raw bill date to DateLayout. It returns an error
// when the raw value matches none of the accepted layouts; callers keep the
// raw value in that case.
func FormatDate(raw string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("unparseable date %q", raw)
}

// statusLabels maps backend statuses to their display labels.
var statusLabels = map[string]string{
	"pending":  "En attente",
	"accepted": "Accepté",
	"refused":  "Refusé",
}

// FormatStatus returns the display label for a bill status. Unknown statuses
// pass through unchanged.
func FormatStatus(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}
