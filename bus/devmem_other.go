//go:build !unix

package bus

import (
	"errors"

	"github.com/ezrec/hwrw/iomap"
)

const DEVMEM_PATH = "/dev/mem"

// DevMem is not available on this platform.
type DevMem struct {
	Sim
}

// OpenDevMem always fails on this platform.
func OpenDevMem(path string, windows iomap.Windows) (dm *DevMem, err error) {
	err = errors.ErrUnsupported
	return
}
