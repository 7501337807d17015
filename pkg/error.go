package pkg

import (
	"strings"
)

// Error is a list of independent failures, such as one error per input file
// when a command processes several sources. It matches each of its elements
// with errors.Is and errors.As.
type Error []error

// MakeError returns an Error containing the non-nil errs.
func MakeError(errs ...error) Error {
	var e Error

	return e.Wrap(errs...)
}

// Error joins the messages of all elements, one per line.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap returns e with the non-nil errs appended.
func (e Error) Wrap(errs ...error) Error {
	for _, err := range errs {
		if err != nil {
			e = append(e, err)
		}
	}

	return e
}

// Unwrap returns the elements of e.
func (e Error) Unwrap() []error { return e }

// Err returns e, or nil if e is empty. Use it when returning an Error as an
// error so that an empty list does not produce a non-nil interface.
func (e Error) Err() error {
	if len(e) == 0 {
		return nil
	}

	return e
}
