package command

import (
	"bytes"
	"strconv"
	"strings"
)

const (
	FIELD_COUNT = 3 // Verb plus two operands.

	cutset = "\r\n\x00" // Line terminators trimmed from the end of input.
)

// fields splits text at every single space or tab. Doubled separators
// produce empty fields.
func fields(text string) (words []string) {
	start := 0
	for n := 0; n < len(text); n++ {
		if text[n] == ' ' || text[n] == '\t' {
			words = append(words, text[start:n])
			start = n + 1
		}
	}
	words = append(words, text[start:])
	return
}

// parseCount parses a decimal register count.
func parseCount(name string, word string) (value uint32, err error) {
	if len(word) == 0 {
		err = &ErrField{Name: name, Text: word, Err: ErrMalformedField}
		return
	}
	v64, err := strconv.ParseUint(word, 10, 32)
	if err != nil {
		err = &ErrField{Name: name, Text: word, Err: ErrMalformedField}
		return
	}
	value = uint32(v64)
	return
}

// parseHex parses a hexadecimal field, with an optional 0x prefix.
func parseHex(name string, word string) (value uint32, err error) {
	digits := word
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	if len(digits) == 0 {
		err = &ErrField{Name: name, Text: word, Err: ErrMalformedField}
		return
	}
	v64, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		err = &ErrField{Name: name, Text: word, Err: ErrMalformedField}
		return
	}
	value = uint32(v64)
	return
}

// Parse converts a raw command into a Command.
//
// The accepted forms are:
//
//	r <decimal count> <hex address>
//	w <hex address> <hex value>
//
// Fields are separated by exactly one space or tab; trailing line
// terminators are ignored.
func Parse(input []byte) (cmd Command, err error) {
	text := string(bytes.TrimRight(input, cutset))
	if len(text) == 0 {
		err = ErrTruncated
		return
	}

	words := fields(text)

	switch words[0] {
	case VERB_READ.String():
		cmd.Verb = VERB_READ
	case VERB_WRITE.String():
		cmd.Verb = VERB_WRITE
	default:
		err = &ErrField{Name: "verb", Text: words[0], Err: ErrUnknownVerb}
		return
	}

	if len(words) < FIELD_COUNT {
		err = ErrTruncated
		return
	}

	if len(words) > FIELD_COUNT {
		err = &ErrField{Name: "trailing", Text: strings.Join(words[FIELD_COUNT:], " "), Err: ErrMalformedField}
		return
	}

	switch cmd.Verb {
	case VERB_READ:
		cmd.Count, err = parseCount("count", words[1])
		if err != nil {
			return
		}
		cmd.Start, err = parseHex("address", words[2])
		if err != nil {
			return
		}
	case VERB_WRITE:
		cmd.Address, err = parseHex("address", words[1])
		if err != nil {
			return
		}
		cmd.Value, err = parseHex("value", words[2])
		if err != nil {
			return
		}
	}

	return
}
