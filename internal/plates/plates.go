// Package plates validates and normalizes vehicle licence plates.
package plates

import (
	"regexp"
	"strings"
)

// matches both the old ABC1234 format and Mercosul ABC1D23 plates
var plateRegexp = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)

// Normalize returns the canonical form of a plate: uppercase, trimmed.
func Normalize(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// IsValid reports whether a plate has a valid format.
func IsValid(plate string) bool {
	return plateRegexp.MatchString(Normalize(plate))
}
