package android

import "regexp"

var validKey = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsValidKey reports whether key can be used as an Android resource name:
// a lowercase letter followed by lowercase letters, digits and underscores.
func IsValidKey(key string) bool {
	return validKey.MatchString(key)
}
