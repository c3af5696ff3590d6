package codec

import "fmt"

// ParsingError wraps a malformed wire payload, carrying the original
// message so callers can log it. The codec never partially applies a
// parse: it returns this instead of a half-populated value.
type ParsingError struct {
	Message string
	Cause   error
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("codec: failed to parse message %q: %v", e.Message, e.Cause)
}

func (e *ParsingError) Unwrap() error { return e.Cause }

func parsingErrorf(raw string, format string, args ...interface{}) *ParsingError {
	return &ParsingError{Message: raw, Cause: fmt.Errorf(format, args...)}
}
