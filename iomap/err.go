package iomap

import (
	"errors"

	"github.com/ezrec/hwrw/translate"
)

var f = translate.From

var (
	ErrAddressOutOfRange = errors.New(f("address out of range"))
)

// ErrAddress reports the physical address that failed validation.
type ErrAddress struct {
	Address uint32
	Err     error
}

func (err *ErrAddress) Error() string {
	return f("0x%08x %v", err.Address, err.Err)
}

func (err *ErrAddress) Unwrap() error {
	return err.Err
}

// ErrWindow reports a badly configured register window.
type ErrWindow struct {
	Window Window
	Reason string
}

func (err *ErrWindow) Error() string {
	return f("window %v %v", err.Window, err.Reason)
}
