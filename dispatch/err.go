package dispatch

import (
	"errors"

	"github.com/ezrec/hwrw/translate"
)

var f = translate.From

var (
	ErrInputTruncated  = errors.New(f("input truncated"))
	ErrResponseClipped = errors.New(f("response clipped"))
)

// ErrCommand locates an error in the command that caused it.
type ErrCommand struct {
	Input string
	Err   error
}

func (err *ErrCommand) Error() string {
	return f("'%v' %v", err.Input, err.Err)
}

func (err *ErrCommand) Unwrap() error {
	return err.Err
}
