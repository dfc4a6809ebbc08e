package dispatch

import (
	"errors"
	"strings"

	"github.com/rs/xid"
)

// StatusCode is the outcome of a command.
type StatusCode int

//go:generate go tool stringer -linecomment -type=StatusCode
const (
	STATUS_OK       = StatusCode(0) // ok
	STATUS_REJECTED = StatusCode(1) // rejected
	STATUS_FAILED   = StatusCode(2) // failed
)

// Status reports the handling of a single command.
type Status struct {
	ID         xid.ID     // Identifier of the command, for logs and the audit trail.
	Code       StatusCode // Outcome.
	Consumed   int        // Bytes of input accepted.
	Truncated  bool       // Input exceeded the maximum and was cut.
	Clipped    bool       // Response exceeded the buffer and lost its last lines.
	Err        error      // Reason for STATUS_REJECTED or STATUS_FAILED.
	Diagnostic []string   // Human readable diagnostic for a rejected command.
}

// Ok is true if the command completed.
func (st Status) Ok() bool {
	return st.Code == STATUS_OK
}

// Warning reports data lost by the command: ErrInputTruncated,
// ErrResponseClipped, both joined, or nil.
func (st Status) Warning() error {
	var errs []error
	if st.Truncated {
		errs = append(errs, ErrInputTruncated)
	}
	if st.Clipped {
		errs = append(errs, ErrResponseClipped)
	}
	return errors.Join(errs...)
}

func (st Status) String() (text string) {
	text = f("%v %v consumed %d", st.ID, st.Code, st.Consumed)
	if warning := st.Warning(); warning != nil {
		text += " (" + strings.ReplaceAll(warning.Error(), "\n", ", ") + ")"
	}
	if st.Err != nil {
		text += ": " + st.Err.Error()
	}
	return
}
