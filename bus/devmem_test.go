//go:build unix

package bus

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hwrw/iomap"
)

// backingFile creates a regular file standing in for physical memory.
func backingFile(t *testing.T, size int64) (path string) {
	path = filepath.Join(t.TempDir(), "mem")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	err = file.Truncate(size)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestDevMem(t *testing.T) {
	assert := assert.New(t)

	path := backingFile(t, 0x4000)
	windows := iomap.Windows{{Start: 0x1000, End: 0x1100}}

	dm, err := OpenDevMem(path, windows)
	if !assert.NoError(err) {
		return
	}

	addr := iomap.ToAccessSpace(0x1010)
	assert.NoError(dm.Write32(addr, 0xdead_beef))
	value, err := dm.Read32(addr)
	assert.NoError(err)
	assert.Equal(uint32(0xdead_beef), value)

	// Outside the window.
	_, err = dm.Read32(iomap.ToAccessSpace(0x1100))
	assert.ErrorIs(err, ErrAccessFault)
	// Misaligned.
	_, err = dm.Read32(iomap.ToAccessSpace(0x1012))
	assert.ErrorIs(err, ErrAccessFault)

	assert.Equal(Stats{Reads: 1, Writes: 1, Faults: 2}, dm.Stats())
	assert.NoError(dm.Close())

	_, err = dm.Read32(addr)
	assert.ErrorIs(err, ErrClosed)

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal(uint32(0xdead_beef), binary.NativeEndian.Uint32(data[0x1010:]))
}

func TestDevMemOpenErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := OpenDevMem(filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(err, os.ErrNotExist)

	path := backingFile(t, 0x4000)
	_, err = OpenDevMem(path, iomap.Windows{{Start: 0x1000, End: 0x1000}})
	var errWindow *iomap.ErrWindow
	assert.ErrorAs(err, &errWindow)
}
