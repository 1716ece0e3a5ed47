package canonical

import (
	"regexp"
	"strconv"
	"strings"
)

var priceNumber = regexp.MustCompile(`[0-9]+(?:\.[0-9]{1,2})?`)

// ParsePrice normalizes free-text price forms ("$20", "Free", "20.00",
// "$10 adv / $12 door") to a decimal value. Free and donation-based shows
// normalize to 0; text with no recognizable amount normalizes to nil.
func ParsePrice(text string) *float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}

	if strings.Contains(s, "free") || strings.Contains(s, "donation") {
		zero := 0.0
		return &zero
	}

	match := priceNumber.FindString(s)
	if match == "" {
		return nil
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}
