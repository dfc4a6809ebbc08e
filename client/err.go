package client

import (
	"errors"
	"strings"
)

var ErrRejected = errors.New(f("command rejected"))
var ErrFailed = errors.New(f("command failed"))
var ErrUnexpected = errors.New(f("unexpected server status"))

// ErrStatus is a non-success reply from the server.
type ErrStatus struct {
	Code int
	Text string
	Err  error
}

func (err *ErrStatus) Error() string {
	text := strings.TrimSpace(err.Text)
	if len(text) == 0 {
		return f("%v (HTTP %d)", err.Err, err.Code)
	}
	return f("%v (HTTP %d): %s", err.Err, err.Code, text)
}

func (err *ErrStatus) Unwrap() error {
	return err.Err
}
