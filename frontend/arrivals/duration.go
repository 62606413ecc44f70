package arrivals

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration parses a planned unload duration into minutes. Accepted forms
// are hour/minute tokens ("1h 30m", "2h", "45m") and a bare number of minutes
// ("90"). The result must be positive.
func ParseDuration(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("duration is required")
	}

	var total int64
	for _, tok := range strings.Fields(s) {
		switch {
		case strings.HasSuffix(tok, "h"):
			n, err := strconv.ParseInt(strings.TrimSuffix(tok, "h"), 10, 64)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid hours in duration %q", s)
			}
			total += n * 60
		case strings.HasSuffix(tok, "m"):
			n, err := strconv.ParseInt(strings.TrimSuffix(tok, "m"), 10, 64)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid minutes in duration %q", s)
			}
			total += n
		default:
			n, err := strconv.ParseInt(tok, 10, 64)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			total += n
		}
	}
	if total <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return total, nil
}

// FormatMinutes renders stored minutes back into the "1h 30m" form.
func FormatMinutes(minutes int64) string {
	if minutes <= 0 {
		return "-"
	}
	h := minutes / 60
	m := minutes % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
