package wire

import "fmt"

// FormatError reports a malformed wire-format byte stream: a truncated
// varint, a length-delimited field whose length exceeds the remaining
// buffer, or a mismatched legacy-group end tag.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("wire format: %s", e.Reason)
}

func formatErrorf(format string, args ...interface{}) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// errFromConsume turns a protowire negative-length parse failure into a
// *FormatError. protowire signals "not enough bytes" and "malformed varint"
// both as n < 0; we don't have a finer-grained code to report, so the
// message stays generic (mirrors protowire's own ParseError text).
func errFromConsume(reason string) error {
	return &FormatError{Reason: reason}
}
