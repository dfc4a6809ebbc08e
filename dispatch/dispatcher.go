// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package dispatch executes register commands and keeps the last result.
//
// A Dispatcher parses a raw command, checks it against the legal register
// windows, translates the addresses into the access space and performs the
// accesses on its Bus. Commands are serialized: at most one is in flight,
// and the response buffer always holds the complete result of exactly one
// command.
package dispatch

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/ezrec/hwrw/bus"
	"github.com/ezrec/hwrw/command"
	"github.com/ezrec/hwrw/iomap"
	"github.com/ezrec/hwrw/translate"
)

const (
	MAX_DATA        = 1024 // Maximum accepted command size in bytes.
	REGISTER_STRIDE = 4    // Bytes between consecutive registers of a read.
)

// Stats counts the commands handled by a dispatcher.
type Stats struct {
	Commands  uint64 `json:"commands"`
	Ok        uint64 `json:"ok"`
	Rejected  uint64 `json:"rejected"`
	Failed    uint64 `json:"failed"`
	Truncated uint64 `json:"truncated"`
	Clipped   uint64 `json:"clipped"`
}

// Dispatcher runs commands against a bus.
type Dispatcher struct {
	Verbose  bool          // If set, logs every register access.
	MaxInput int           // Maximum accepted command size in bytes.
	Stride   uint32        // Bytes between consecutive registers of a read.
	Windows  iomap.Windows // Legal physical register windows.
	Bus      bus.Bus       // Register accessor.
	Recorder Recorder      // Optional audit trail.

	mutex    sync.Mutex
	response ResponseBuffer
	stats    Stats
}

// NewDispatcher creates a dispatcher for the bus, limited to the windows.
func NewDispatcher(b bus.Bus, windows iomap.Windows) (d *Dispatcher) {
	d = &Dispatcher{
		MaxInput: MAX_DATA,
		Stride:   REGISTER_STRIDE,
		Windows:  windows,
		Bus:      b,
	}
	return
}

// Response returns the rendered result of the last completed command.
func (d *Dispatcher) Response() []byte {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.response.Get()
}

// Stats returns the command counters.
func (d *Dispatcher) Stats() Stats {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.stats
}

// Usage returns the diagnostic for a rejected input: the echoed input, the
// reason, and a reminder of the two command forms.
func Usage(input []byte, err error) (lines []string) {
	lines = append(lines, f("Input is not according to the protocol. Input: %s", string(input)))
	if err != nil {
		lines = append(lines, err.Error())
	}
	lines = append(lines, translate.Usage()...)
	return
}

// HandleCommand runs a single raw command. Input beyond MaxInput is dropped
// and the remaining prefix is still run.
func (d *Dispatcher) HandleCommand(raw []byte) (status Status) {
	status, _ = d.Execute(raw)
	return
}

// Execute runs a single raw command like HandleCommand, and returns the
// rendered response of that same command. The response is nil unless the
// command completed.
func (d *Dispatcher) Execute(raw []byte) (status Status, response []byte) {
	status.ID = xid.New()

	input := raw
	if len(input) > d.MaxInput {
		log.Print(f("Input is too large: %d is max, %d was supplied", d.MaxInput, len(raw)))
		input = input[:d.MaxInput]
		status.Truncated = true
	}
	status.Consumed = len(input)
	input = bytes.Clone(input)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	var cmd command.Command
	var values []uint32
	start := time.Now()

	defer func() {
		d.count(status)
		if d.Recorder != nil {
			d.Recorder.Record(Record{
				ID:       status.ID,
				Time:     start,
				Duration: time.Since(start),
				Input:    string(bytes.TrimRight(input, "\r\n\x00")),
				Command:  cmd,
				Values:   values,
				Status:   status,
			})
		}
	}()

	defer func() {
		if status.Ok() {
			response = d.response.Get()
		}
	}()

	cmd, err := command.Parse(input)
	if err != nil {
		cmd = command.Command{}
		status.Code = STATUS_REJECTED
		status.Err = &ErrCommand{Input: string(input), Err: err}
		status.Diagnostic = Usage(input, err)
		for _, line := range status.Diagnostic {
			log.Printf("%v: %v", status.ID, line)
		}
		return
	}

	switch cmd.Verb {
	case command.VERB_READ:
		err = d.Windows.Check(cmd.Start, cmd.Count, d.Stride)
		if err == nil {
			values, err = d.read(status.ID, cmd)
		}
	case command.VERB_WRITE:
		err = d.Windows.Check(cmd.Address, 1, d.Stride)
		if err == nil {
			err = d.write(status.ID, cmd)
		}
	}

	switch {
	case err == nil:
		status.Code = STATUS_OK
	case errors.Is(err, iomap.ErrAddressOutOfRange):
		status.Code = STATUS_REJECTED
		status.Err = &ErrCommand{Input: cmd.String(), Err: err}
		status.Diagnostic = []string{status.Err.Error(), f("Legal register windows: %v", d.Windows)}
		log.Printf("%v: %v", status.ID, status.Err)
		return
	default:
		status.Code = STATUS_FAILED
		status.Err = &ErrCommand{Input: cmd.String(), Err: err}
		log.Printf("%v: %v", status.ID, status.Err)
		return
	}

	d.response.Capacity = d.MaxInput
	switch cmd.Verb {
	case command.VERB_READ:
		status.Clipped = d.response.Set(renderRead(cmd.Start, d.Stride, values))
		if status.Clipped {
			log.Printf("%v: %v", status.ID, f("%v: %d registers do not fit in %d bytes", ErrResponseClipped, len(values), d.MaxInput))
		}
	case command.VERB_WRITE:
		d.response.Set([]byte(RESPONSE_WRITE_OK))
	}

	return
}

// read performs the register reads of a command, in address order.
func (d *Dispatcher) read(id xid.ID, cmd command.Command) (values []uint32, err error) {
	log.Print(f("%v: Reading %d memory registers, starting at address 0x%08x", id, cmd.Count, cmd.Start))

	values = make([]uint32, 0, cmd.Count)
	for n := range cmd.Count {
		physical := cmd.Start + n*d.Stride
		var value uint32
		value, err = d.Bus.Read32(iomap.ToAccessSpace(physical))
		if err != nil {
			values = nil
			return
		}
		if d.Verbose {
			log.Print(f("%v: Output read at address 0x%08x: %d", id, physical, value))
		}
		values = append(values, value)
	}

	return
}

// write performs the register write of a command.
func (d *Dispatcher) write(id xid.ID, cmd command.Command) (err error) {
	log.Print(f("%v: Writing value 0x%x to memory address 0x%08x", id, cmd.Value, cmd.Address))

	err = d.Bus.Write32(iomap.ToAccessSpace(cmd.Address), cmd.Value)
	return
}

// count updates the counters. The caller must hold the lock.
func (d *Dispatcher) count(status Status) {
	d.stats.Commands++
	if status.Truncated {
		d.stats.Truncated++
	}
	if status.Clipped {
		d.stats.Clipped++
	}
	switch status.Code {
	case STATUS_OK:
		d.stats.Ok++
	case STATUS_REJECTED:
		d.stats.Rejected++
	case STATUS_FAILED:
		d.stats.Failed++
	}
}
