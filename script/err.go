package script

import (
	"errors"
)

var ErrBadArgument = errors.New(f("argument is not a 32-bit unsigned integer"))
var ErrBadResponse = errors.New(f("unrecognized read response"))
var ErrIncompleteRead = errors.New(f("incomplete read response"))

// ErrArgument is a builtin argument out of range.
type ErrArgument struct {
	Name  string
	Value string
}

func (err *ErrArgument) Error() string {
	return f("%s=%s: %v", err.Name, err.Value, ErrBadArgument)
}

func (err *ErrArgument) Unwrap() error {
	return ErrBadArgument
}

// ErrResponse is a response line that could not be parsed.
type ErrResponse struct {
	Line string
	Err  error
}

func (err *ErrResponse) Error() string {
	return f("%v: %q: %v", ErrBadResponse, err.Line, err.Err)
}

func (err *ErrResponse) Unwrap() []error {
	return []error{ErrBadResponse, err.Err}
}

// ErrShortRead is a read response holding fewer registers than requested.
type ErrShortRead struct {
	Address uint32
	Count   uint32
	Got     int
}

func (err *ErrShortRead) Error() string {
	return f("r %d 0x%08x: %v: %d registers returned", err.Count, err.Address, ErrIncompleteRead, err.Got)
}

func (err *ErrShortRead) Unwrap() error {
	return ErrIncompleteRead
}
