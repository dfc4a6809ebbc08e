package translate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Usage reminder keys, in display order.
var usageKeys = []string{
	"If you wish to read:",
	"\"r <amount of registers to read> <physical address of register to start at>\"",
	"Example: echo \"r 8 0x40024000\"",
	"If you wish to write:",
	"\"w <physical address of register to write to> <value to write>\"",
	"Example: echo \"w 0x40024000 0x222\"",
}

// Dutch strings, as key and translation. English is the identity of the key.
var dutch = [][2]string{
	{"If you wish to read:", "Om te lezen:"},
	{"\"r <amount of registers to read> <physical address of register to start at>\"",
		"\"r <aantal te lezen registers> <fysiek adres van het eerste register>\""},
	{"Example: echo \"r 8 0x40024000\"", "Voorbeeld: echo \"r 8 0x40024000\""},
	{"If you wish to write:", "Om te schrijven:"},
	{"\"w <physical address of register to write to> <value to write>\"",
		"\"w <fysiek adres van het register> <te schrijven waarde>\""},
	{"Example: echo \"w 0x40024000 0x222\"", "Voorbeeld: echo \"w 0x40024000 0x222\""},
	{"Input is not according to the protocol. Input: %s", "Invoer volgt het protocol niet. Invoer: %s"},
	{"Input is too large: %d is max, %d was supplied", "Invoer is te groot: maximaal %d, %d aangeleverd"},
	{"unknown verb", "onbekend commando"},
	{"malformed field", "ongeldig veld"},
	{"truncated command", "onvolledig commando"},
	{"address out of range", "adres buiten bereik"},
	{"access fault", "toegangsfout"},
}

func registerCatalog() (err error) {
	for _, key := range usageKeys {
		err = message.SetString(language.AmericanEnglish, key, key)
		if err != nil {
			return
		}
	}

	for _, pair := range dutch {
		err = message.SetString(language.Dutch, pair[0], pair[1])
		if err != nil {
			return
		}
	}

	return
}

// Usage returns the usage reminder for the two command forms.
func Usage() (lines []string) {
	lines = make([]string, len(usageKeys))
	for n, key := range usageKeys {
		lines[n] = From(key)
	}
	return
}
