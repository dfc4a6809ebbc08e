package dispatch

import (
	"bytes"
	"fmt"
)

// ResponseBuffer holds the rendered result of the last command.
// It is not safe for concurrent use; the Dispatcher guards it.
type ResponseBuffer struct {
	Capacity int // Maximum content size in bytes.

	content []byte
}

// Set overwrites the content. Content beyond the capacity is dropped at the
// last complete line that fits, and clipped is set.
func (rb *ResponseBuffer) Set(content []byte) (clipped bool) {
	if len(content) > rb.Capacity {
		content = content[:rb.Capacity]
		cut := bytes.LastIndexByte(content, '\n')
		content = content[:cut+1]
		clipped = true
	}
	rb.content = append(rb.content[:0], content...)
	return
}

// Get returns a copy of the content, empty if nothing was set yet.
func (rb *ResponseBuffer) Get() []byte {
	return bytes.Clone(rb.content)
}

// renderRead formats the values read from count registers at start.
func renderRead(start uint32, stride uint32, values []uint32) []byte {
	buf := &bytes.Buffer{}

	switch len(values) {
	case 0:
	case 1:
		fmt.Fprintf(buf, "%d\n", values[0])
	default:
		for n, value := range values {
			fmt.Fprintf(buf, "0x%08x %d\n", start+uint32(n)*stride, value)
		}
	}

	return buf.Bytes()
}

// RESPONSE_WRITE_OK is the content after a completed write.
const RESPONSE_WRITE_OK = "ok\n"
