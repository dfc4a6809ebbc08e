// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package iomap maps physical register addresses into the static I/O
// window used for access, and checks them against the legal register space.
package iomap

import (
	"fmt"
)

// Address is a register address in the access space.
type Address uint32

const (
	IO_BASE = uint32(0xF000_0000) // Fixed high-order pattern of the access window.

	PHYS_HIGH_MASK = uint32(0xff00_0000) // Physical bits moved down into the window.
	PHYS_LOW_MASK  = uint32(0x000f_ffff) // Physical bits carried unchanged.
	IO_HIGH_MASK   = uint32(0x0ff0_0000) // Window bits holding the physical high byte.
	PHYS_LOST_MASK = uint32(0x00f0_0000) // Physical bits with no place in the window.
)

// ToAccessSpace maps a physical address into the access space.
func ToAccessSpace(physical uint32) Address {
	return Address(IO_BASE | ((physical & PHYS_HIGH_MASK) >> 4) | (physical & PHYS_LOW_MASK))
}

// ToPhysical maps an access space address back to its physical address.
func ToPhysical(mapped Address) uint32 {
	return ((uint32(mapped) & IO_HIGH_MASK) << 4) | (uint32(mapped) & PHYS_LOW_MASK)
}

// Representable is true if the physical address survives the round trip
// through the access space.
func Representable(physical uint32) bool {
	return physical&PHYS_LOST_MASK == 0
}

// String formats the access space address.
func (addr Address) String() string {
	return fmt.Sprintf("0x%08x", uint32(addr))
}
