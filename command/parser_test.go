package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		input string
		cmd   Command
	}){
		{"r 8 0x40024000", Read(8, 0x4002_4000)},
		{"w 0x40024000 0x222", Write(0x4002_4000, 0x222)},
		{"r 1 40024000", Read(1, 0x4002_4000)},
		{"r\t2\t0X4002400C", Read(2, 0x4002_400c)},
		{"w 40024000 deadBEEF\n", Write(0x4002_4000, 0xdead_beef)},
		{"r 0 0x0\r\n", Read(0, 0)},
		{"w 0xffffffff 0xffffffff\x00", Write(0xffff_ffff, 0xffff_ffff)},
		{"r 4294967295 0x1", Read(0xffff_ffff, 1)},
	}

	for _, entry := range table {
		cmd, err := Parse([]byte(entry.input))
		assert.NoError(err, entry.input)
		assert.Equal(entry.cmd, cmd, entry.input)
	}
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		input string
		err   error
	}){
		{"x foo", ErrUnknownVerb},
		{"R 8 0x40024000", ErrUnknownVerb},
		{"read 8 0x40024000", ErrUnknownVerb},
		{" r 8 0x40024000", ErrUnknownVerb},
		{"", ErrTruncated},
		{"\n", ErrTruncated},
		{"r", ErrTruncated},
		{"r 8", ErrTruncated},
		{"w 0x40024000", ErrTruncated},
		{"r 0x8 0x40024000", ErrMalformedField},
		{"r -1 0x40024000", ErrMalformedField},
		{"r 4294967296 0x40024000", ErrMalformedField},
		{"r 8 0xg0024000", ErrMalformedField},
		{"r 8 0x", ErrMalformedField},
		{"w 0x40024000 0x100000000", ErrMalformedField},
		{"w 0x40024000 +1", ErrMalformedField},
		{"r  8 0x40024000", ErrMalformedField},
		{"r 8 0x40024000 ", ErrMalformedField},
		{"w 0x40024000 0x222 0x333", ErrMalformedField},
	}

	for _, entry := range table {
		_, err := Parse([]byte(entry.input))
		assert.ErrorIs(err, entry.err, "%q", entry.input)
	}
}

func TestParseFieldError(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse([]byte("w 0x40024000 zz"))
	var errField *ErrField
	assert.ErrorAs(err, &errField)
	assert.Equal("value", errField.Name)
	assert.Equal("zz", errField.Text)
}

func TestParseIndependentInputs(t *testing.T) {
	assert := assert.New(t)

	input := []byte("r 8 0x40024000")
	cmd, err := Parse(input)
	assert.NoError(err)

	// The command does not alias the input.
	copy(input, strings.Repeat("x", len(input)))
	assert.Equal(Read(8, 0x4002_4000), cmd)
}

func TestCommandString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("r 8 0x40024000", Read(8, 0x4002_4000).String())
	assert.Equal("w 0x40024000 0x222", Write(0x4002_4000, 0x222).String())
	assert.Equal("Verb(7)", Command{Verb: Verb(7)}.String())
}
