package browseai

import (
	"regexp"
	"strconv"
	"strings"
)

var digitsPattern = regexp.MustCompile(`[\d]+(?:\.\d+)?`)

// ParsePriceCents turns a scraped price string into cents. Currency symbols,
// thousands separators, and trailing currency codes are stripped. Ranges like
// "19.99 - 29.99" resolve to the lower bound. Returns 0 when nothing numeric
// is found.
func ParsePriceCents(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer("$", "", ",", "", "USD", "", "usd", "").Replace(s)
	s = strings.TrimSpace(s)

	// Ranges: take the lower bound.
	if idx := strings.Index(s, "-"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v * 100)
	}

	// Fall back to the first number embedded in the string.
	if m := digitsPattern.FindString(s); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return int(v * 100)
		}
	}
	return 0
}
