package stats

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var titleCaser = cases.Title(language.English)

// CategoryTitle turns a category key such as "liquidVolume" into "Liquid Volume".
func CategoryTitle(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return titleCaser.String(b.String())
}

// NewPrinter returns the printer used for grouped numbers.
func NewPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}
