// Package featureflags reads boolean switches from FLAG_<NAME> environment variables.
package featureflags

import (
	"os"
	"strings"
)

// Enabled reports whether FLAG_<NAME> is set to 1, true, yes or on (case-insensitive).
func Enabled(name string) bool {
	return parse(os.Getenv(envKey(name)))
}

func envKey(name string) string {
	return "FLAG_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func parse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
