package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIn(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Om te lezen:", In("nl", "If you wish to read:"))
	assert.Equal("If you wish to read:", In("en-US", "If you wish to read:"))
	assert.Equal("Invoer is te groot: maximaal 1024, 2000 aangeleverd",
		In("nl-NL", "Input is too large: %d is max, %d was supplied", 1024, 2000))

	// Unknown keys format as-is.
	assert.Equal("value 7", In("nl", "value %d", 7))
	// Unparseable language falls back to English.
	assert.Equal("If you wish to write:", In("%%", "If you wish to write:"))
}

func TestUsage(t *testing.T) {
	assert := assert.New(t)

	usage := Usage()
	assert.Len(usage, len(usageKeys))
	for _, line := range usage {
		assert.NotEmpty(line)
	}
}
