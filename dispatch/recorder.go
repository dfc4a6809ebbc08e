package dispatch

import (
	"time"

	"github.com/rs/xid"

	"github.com/ezrec/hwrw/command"
)

// Record describes one handled command.
type Record struct {
	ID       xid.ID
	Time     time.Time
	Duration time.Duration
	Input    string          // Command text, after truncation.
	Command  command.Command // Parsed command; zero if rejected by the parser.
	Values   []uint32        // Values read, in address order.
	Status   Status
}

// Recorder receives a record of every handled command. Record is called
// with the dispatcher locked, and must not call back into it.
type Recorder interface {
	Record(rec Record)
}
