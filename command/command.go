// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package command

import (
	"fmt"
)

// Verb selects the command form.
type Verb int

//go:generate go tool stringer -linecomment -type=Verb
const (
	VERB_READ  = Verb(0) // r
	VERB_WRITE = Verb(1) // w
)

// Command is a parsed register command. Addresses are physical, and not yet
// translated into the access space.
type Command struct {
	Verb Verb

	Count uint32 // VERB_READ: Number of registers to read.
	Start uint32 // VERB_READ: Physical address of the first register.

	Address uint32 // VERB_WRITE: Physical address of the register.
	Value   uint32 // VERB_WRITE: Value to write.
}

// Read creates a read command.
func Read(count uint32, start uint32) Command {
	return Command{Verb: VERB_READ, Count: count, Start: start}
}

// Write creates a write command.
func Write(address uint32, value uint32) Command {
	return Command{Verb: VERB_WRITE, Address: address, Value: value}
}

// String returns the canonical text form of the command.
func (cmd Command) String() (text string) {
	switch cmd.Verb {
	case VERB_READ:
		text = fmt.Sprintf("%v %d 0x%08x", cmd.Verb, cmd.Count, cmd.Start)
	case VERB_WRITE:
		text = fmt.Sprintf("%v 0x%08x 0x%x", cmd.Verb, cmd.Address, cmd.Value)
	default:
		text = fmt.Sprintf("%v", cmd.Verb)
	}
	return
}
