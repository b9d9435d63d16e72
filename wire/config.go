package wire

import "os"

// Config holds decode-time behavior toggles, following the package-level
// Config/SetConfig pattern of wire/compat.go, scoped down to the handful of
// toggles still relevant once maps, wrappers, and JSON input are out of
// scope.
type Config struct {
	// AllowUnknownEnumNumberDecode keeps a decoded enum value that doesn't
	// match any declared EnumValue instead of rejecting it, matching
	// proto2's "unknown enum values round-trip as unknown fields" rule in
	// spirit — kept permissive by default since proto2 enums are an open
	// set on the wire.
	AllowUnknownEnumNumberDecode bool

	// PreserveUnknownBytesOnDecode keeps the raw bytes of fields not present
	// in the schema (instead of silently discarding them) so a decoded
	// Value can be re-encoded without data loss.
	PreserveUnknownBytesOnDecode bool
}

var config = Config{
	AllowUnknownEnumNumberDecode: true,
	PreserveUnknownBytesOnDecode: true,
}

// SetConfig replaces the package-level decode configuration.
func SetConfig(c Config) { config = c }

// GetConfig returns the current package-level decode configuration.
func GetConfig() Config { return config }

func init() {
	if v, ok := os.LookupEnv("PROTOREF_ALLOW_UNKNOWN_ENUM_DECODE"); ok {
		config.AllowUnknownEnumNumberDecode = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("PROTOREF_PRESERVE_UNKNOWN_BYTES"); ok {
		config.PreserveUnknownBytesOnDecode = v == "1" || v == "true"
	}
}
