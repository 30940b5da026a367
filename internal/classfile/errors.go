package classfile

import "fmt"

// MalformedClassError reports bytes that do not form a valid class file.
// Offset is the byte position where decoding gave up, or -1.
type MalformedClassError struct {
	Offset int
	Reason string
	Err    error
}

func (e *MalformedClassError) Error() string {
	msg := "malformed class: " + e.Reason
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (at byte %d)", msg, e.Offset)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *MalformedClassError) Unwrap() error {
	return e.Err
}

func malformed(offset int, format string, args ...any) *MalformedClassError {
	return &MalformedClassError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
