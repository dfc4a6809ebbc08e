// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package bus provides register access to memory mapped hardware.
//
// A Bus performs exactly one 32-bit access per call against an address that
// has already been translated into the access space. Two implementations are
// provided: DevMem maps physical memory through /dev/mem, and Sim keeps a
// simulated register file for development hosts and tests.
package bus

import (
	"sync/atomic"

	"github.com/ezrec/hwrw/iomap"
)

// Bus is a 32-bit register accessor.
type Bus interface {
	// Read32 performs a single aligned 32-bit load.
	Read32(addr iomap.Address) (value uint32, err error)
	// Write32 performs a single aligned 32-bit store.
	Write32(addr iomap.Address, value uint32) error
	// Close releases the resources of the bus.
	Close() error
}

// Stats counts the accesses performed by a bus.
type Stats struct {
	Reads  uint64 `json:"reads"`
	Writes uint64 `json:"writes"`
	Faults uint64 `json:"faults"`
}

// Stater is implemented by buses that keep access statistics.
type Stater interface {
	Stats() Stats
}

// counters keeps Stats safely for concurrent use.
type counters struct {
	reads  atomic.Uint64
	writes atomic.Uint64
	faults atomic.Uint64
}

func (cnt *counters) Stats() Stats {
	return Stats{
		Reads:  cnt.reads.Load(),
		Writes: cnt.writes.Load(),
		Faults: cnt.faults.Load(),
	}
}

// fault counts and builds an access fault for the address.
func (cnt *counters) fault(addr iomap.Address, reason string) error {
	cnt.faults.Add(1)
	return &ErrFault{Address: addr, Reason: reason}
}

// aligned is true for a 32-bit aligned address.
func aligned(addr iomap.Address) bool {
	return addr&3 == 0
}
