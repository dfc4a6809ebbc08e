package iomap

import (
	"fmt"
	"strings"
)

// Window is a half-open range [Start, End) of legal physical register addresses.
type Window struct {
	Start uint32 `yaml:"start"`
	End   uint32 `yaml:"end"`
}

// Contains is true if the physical address lies in the window.
func (win Window) Contains(physical uint32) bool {
	return physical >= win.Start && physical < win.End
}

// Size of the window in bytes.
func (win Window) Size() uint32 {
	if win.End <= win.Start {
		return 0
	}
	return win.End - win.Start
}

func (win Window) String() string {
	return fmt.Sprintf("[0x%08x, 0x%08x)", win.Start, win.End)
}

// Validate checks that the window is non-empty and fully representable
// in the access space.
func (win Window) Validate() (err error) {
	if win.Size() == 0 {
		err = &ErrWindow{Window: win, Reason: f("empty")}
		return
	}

	// Every address in the window must share the lost bits of Start, and
	// they must all be zero.
	last := win.End - 1
	if !Representable(win.Start) || !Representable(last) ||
		(win.Start&^PHYS_LOW_MASK) != (last&^PHYS_LOW_MASK) {
		err = &ErrWindow{Window: win, Reason: f("not representable in the I/O window")}
		return
	}

	return
}

// Windows is the set of legal register windows.
type Windows []Window

// Contains is true if any window contains the physical address.
func (wins Windows) Contains(physical uint32) bool {
	for _, win := range wins {
		if win.Contains(physical) {
			return true
		}
	}
	return false
}

// Check validates a run of count registers, stride bytes apart, starting at
// the physical address start. Every register of the run must be legal and
// representable, and the run may not wrap.
func (wins Windows) Check(start uint32, count uint32, stride uint32) (err error) {
	if count == 0 {
		return
	}

	span := uint64(count-1) * uint64(stride)
	if uint64(start)+span > uint64(^uint32(0)) {
		err = &ErrAddress{Address: start, Err: ErrAddressOutOfRange}
		return
	}

	for n := range count {
		addr := start + n*stride
		if !Representable(addr) || !wins.Contains(addr) {
			err = &ErrAddress{Address: addr, Err: ErrAddressOutOfRange}
			return
		}
	}

	return
}

func (wins Windows) String() string {
	parts := make([]string, len(wins))
	for n, win := range wins {
		parts[n] = win.String()
	}
	return strings.Join(parts, " ")
}
