package bus

import (
	"sync"

	"github.com/ezrec/hwrw/iomap"
)

// Sim is a simulated register file. Registers that were never written
// read as zero.
type Sim struct {
	counters

	mutex     sync.Mutex
	registers map[iomap.Address]uint32
	faults    map[iomap.Address]bool
	closed    bool
}

var _ Bus = (*Sim)(nil)
var _ Stater = (*Sim)(nil)

// NewSim creates an empty simulated register file.
func NewSim() (sim *Sim) {
	sim = &Sim{
		registers: make(map[iomap.Address]uint32),
		faults:    make(map[iomap.Address]bool),
	}
	return
}

// Preload sets a register by physical address, without counting an access.
func (sim *Sim) Preload(physical uint32, value uint32) {
	sim.mutex.Lock()
	defer sim.mutex.Unlock()

	sim.registers[iomap.ToAccessSpace(physical)] = value
}

// Fault makes every access to the register at the physical address fault.
func (sim *Sim) Fault(physical uint32) {
	sim.mutex.Lock()
	defer sim.mutex.Unlock()

	sim.faults[iomap.ToAccessSpace(physical)] = true
}

// Peek returns a register by physical address, without counting an access.
func (sim *Sim) Peek(physical uint32) (value uint32) {
	sim.mutex.Lock()
	defer sim.mutex.Unlock()

	value = sim.registers[iomap.ToAccessSpace(physical)]
	return
}

func (sim *Sim) check(addr iomap.Address) (err error) {
	switch {
	case sim.closed:
		err = ErrClosed
	case !aligned(addr):
		err = sim.fault(addr, f("misaligned"))
	case sim.faults[addr]:
		err = sim.fault(addr, f("bus error"))
	}
	return
}

// Read32 reads a simulated register.
func (sim *Sim) Read32(addr iomap.Address) (value uint32, err error) {
	sim.mutex.Lock()
	defer sim.mutex.Unlock()

	err = sim.check(addr)
	if err != nil {
		return
	}

	sim.reads.Add(1)
	value = sim.registers[addr]
	return
}

// Write32 writes a simulated register.
func (sim *Sim) Write32(addr iomap.Address, value uint32) (err error) {
	sim.mutex.Lock()
	defer sim.mutex.Unlock()

	err = sim.check(addr)
	if err != nil {
		return
	}

	sim.writes.Add(1)
	sim.registers[addr] = value
	return
}

// Close the simulated register file. Further accesses fail.
func (sim *Sim) Close() (err error) {
	sim.mutex.Lock()
	defer sim.mutex.Unlock()

	sim.closed = true
	return
}
