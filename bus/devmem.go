//go:build unix

package bus

import (
	"os"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ezrec/hwrw/iomap"
)

const DEVMEM_PATH = "/dev/mem"

// mapping is one register window mapped from physical memory.
type mapping struct {
	window iomap.Window
	base   uint32 // Physical address of data[0], page aligned.
	data   []byte
}

// DevMem accesses physical registers through an mmap of /dev/mem.
type DevMem struct {
	counters

	mutex    sync.RWMutex
	file     *os.File
	mappings []mapping
}

var _ Bus = (*DevMem)(nil)
var _ Stater = (*DevMem)(nil)

// OpenDevMem maps every window of physical memory from the device at path.
// The mappings are uncached (O_SYNC).
func OpenDevMem(path string, windows iomap.Windows) (dm *DevMem, err error) {
	if len(path) == 0 {
		path = DEVMEM_PATH
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return
	}

	dm = &DevMem{file: file}

	pagesize := uint64(unix.Getpagesize())
	for _, win := range windows {
		err = win.Validate()
		if err != nil {
			break
		}

		base := uint64(win.Start) &^ (pagesize - 1)
		length := (uint64(win.End) - base + pagesize - 1) &^ (pagesize - 1)

		var data []byte
		data, err = unix.Mmap(int(file.Fd()), int64(base), int(length),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			err = &os.PathError{Op: "mmap", Path: path, Err: err}
			break
		}

		dm.mappings = append(dm.mappings, mapping{
			window: win,
			base:   uint32(base),
			data:   data,
		})
	}

	if err != nil {
		dm.Close()
		dm = nil
	}

	return
}

// register locates the mapped register for the access space address.
// The caller must hold the read lock.
func (dm *DevMem) register(addr iomap.Address) (reg *uint32, err error) {
	if dm.file == nil {
		err = ErrClosed
		return
	}

	if !aligned(addr) {
		err = dm.fault(addr, f("misaligned"))
		return
	}

	physical := iomap.ToPhysical(addr)
	for _, m := range dm.mappings {
		if !m.window.Contains(physical) {
			continue
		}
		offset := uint64(physical - m.base)
		if offset+4 > uint64(len(m.data)) {
			break
		}
		reg = (*uint32)(unsafe.Pointer(&m.data[offset]))
		return
	}

	err = dm.fault(addr, f("not mapped"))
	return
}

// Read32 loads a register. The atomic load is never elided or merged.
func (dm *DevMem) Read32(addr iomap.Address) (value uint32, err error) {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	reg, err := dm.register(addr)
	if err != nil {
		return
	}

	dm.reads.Add(1)
	value = atomic.LoadUint32(reg)
	return
}

// Write32 stores a register. The atomic store is never elided or merged.
func (dm *DevMem) Write32(addr iomap.Address, value uint32) (err error) {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	reg, err := dm.register(addr)
	if err != nil {
		return
	}

	dm.writes.Add(1)
	atomic.StoreUint32(reg, value)
	return
}

// Close unmaps all windows and closes the device.
func (dm *DevMem) Close() (err error) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	for _, m := range dm.mappings {
		e := unix.Munmap(m.data)
		if err == nil {
			err = e
		}
	}
	dm.mappings = nil

	if dm.file != nil {
		e := dm.file.Close()
		if err == nil {
			err = e
		}
		dm.file = nil
	}

	return
}
