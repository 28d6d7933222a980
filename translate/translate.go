// Package translate formats user visible messages for the current locale.
package translate

import (
	"github.com/charmbracelet/log"
	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Warn("locale lookup failed", "err", err)
	}

	Use(locales...)
}

// Use selects the message printer for the first matching language tag.
// With no tags, en-US is used.
func Use(tags ...string) {
	if len(tags) == 0 {
		tags = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(tags...))
}

// From formats an en-US Sprintf() style key for the active locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
