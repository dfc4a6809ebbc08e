package command

import (
	"errors"

	"github.com/ezrec/hwrw/translate"
)

var f = translate.From

var (
	ErrUnknownVerb    = errors.New(f("unknown verb"))
	ErrMalformedField = errors.New(f("malformed field"))
	ErrTruncated      = errors.New(f("truncated command"))
)

// ErrField reports the field of a command that failed to parse.
type ErrField struct {
	Name string // Field name.
	Text string // Field text as supplied.
	Err  error
}

func (err *ErrField) Error() string {
	return f("%v '%v' %v", err.Name, err.Text, err.Err)
}

func (err *ErrField) Unwrap() error {
	return err.Err
}
