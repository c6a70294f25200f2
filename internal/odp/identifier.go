package odp

import (
	"fmt"
	"strings"
	"time"

	"github.com/erpl-go/erpl"
)

// ValidateURL implements spec.md §4.9: a valid ODP URL must contain a
// path segment beginning with "EntityOf" or "FactsOf".
func ValidateURL(rawURL string) error {
	for _, seg := range strings.Split(rawURL, "/") {
		seg = strings.SplitN(seg, "?", 2)[0]
		if strings.HasPrefix(seg, "EntityOf") || strings.HasPrefix(seg, "FactsOf") {
			return nil
		}
	}
	return erpl.Component("ODP_BIND", fmt.Errorf("%w: url has no EntityOf/FactsOf segment: %s", erpl.ErrInvalidInput, rawURL))
}

// GenerateSubscriptionID implements spec.md §4.9's identifier scheme:
// YYYYMMDD_HHMMSS + "_" + clean(url).
func GenerateSubscriptionID(now time.Time, rawURL string) string {
	return now.UTC().Format("20060102_150405") + "_" + clean(rawURL)
}

// clean strips the URL scheme and separators, replacing any character
// that isn't a letter, digit, or underscore with an underscore.
func clean(rawURL string) string {
	s := rawURL
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
