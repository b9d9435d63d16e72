package schema

import "os"

// Config holds field-construction-time behavior toggles, following the
// same package-level Config/SetConfig pattern as package wire's Config.
type Config struct {
	// ConvertFieldsToCamelCase rewrites a Field's working name from
	// snake_case to camelCase at construction time, retaining the source
	// name as originalName (spec.md §6). Off by default so loader-built
	// schemas keep the exact names declared in `.proto` source.
	ConvertFieldsToCamelCase bool
}

var config Config

// SetConfig replaces the package-level field-construction configuration.
func SetConfig(c Config) { config = c }

// GetConfig returns the current package-level field-construction configuration.
func GetConfig() Config { return config }

func init() {
	if v, ok := os.LookupEnv("PROTOREF_CONVERT_FIELDS_TO_CAMEL_CASE"); ok {
		config.ConvertFieldsToCamelCase = v == "1" || v == "true"
	}
}
