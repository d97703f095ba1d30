// Package phone normalizes caller-supplied numbers into the +<digits> form
// the SMS providers expect.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// defaultRegion is used by libphonenumber only when a number lacks a
// leading +, which Normalize never produces.
const defaultRegion = "US"

var ErrUnknownRegion = errors.New("unknown phone region")

// Normalize keeps digits and '+', then makes sure the result starts with
// '+': a leading 1 gets "+", anything else gets "+1".
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 2)
	for _, c := range raw {
		if (c >= '0' && c <= '9') || c == '+' {
			b.WriteRune(c)
		}
	}
	n := b.String()

	if strings.HasPrefix(n, "+") {
		return n
	}
	if strings.HasPrefix(n, "1") {
		return "+" + n
	}
	return "+1" + n
}

// Region looks up the ISO region of a normalized number. It is informational
// only; the providers decide whether a number is deliverable.
func Region(normalized string) (string, error) {
	parsed, err := libphonenumber.Parse(normalized, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnknownRegion, normalized, err)
	}

	region := libphonenumber.GetRegionCodeForNumber(parsed)
	if region == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, normalized)
	}
	return region, nil
}
