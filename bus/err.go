package bus

import (
	"errors"

	"github.com/ezrec/hwrw/iomap"
	"github.com/ezrec/hwrw/translate"
)

var f = translate.From

var (
	ErrAccessFault = errors.New(f("access fault"))
	ErrClosed      = errors.New(f("bus closed"))
)

// ErrFault reports an access that could not be performed.
type ErrFault struct {
	Address iomap.Address // Access space address.
	Reason  string
}

func (err *ErrFault) Error() string {
	return f("%v at %v (physical 0x%08x): %v", ErrAccessFault, err.Address, iomap.ToPhysical(err.Address), err.Reason)
}

func (err *ErrFault) Unwrap() error {
	return ErrAccessFault
}
