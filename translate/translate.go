// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate renders user facing text in the caller's locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	err := registerCatalog()
	if err != nil {
		log.Printf("hwrw: catalog: %v", err)
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("hwrw: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// In translates an en-US Sprintf() format for a specific language.
func In(lang string, key message.Reference, args ...any) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return message.NewPrinter(message.MatchLanguage(tag.String())).Sprintf(key, args...)
}
