package content

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale formats timestamps and user-facing messages for one language.
type Locale struct {
	Tag     language.Tag
	printer *message.Printer
}

// NewLocale parses a BCP 47 tag such as "ru-RU". Unparseable tags fall back
// to Russian.
func NewLocale(tag string) Locale {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.Russian
	}
	return Locale{Tag: t, printer: message.NewPrinter(t)}
}

// Sprintf formats with the locale's number conventions.
func (l Locale) Sprintf(format string, args ...any) string {
	if l.printer == nil {
		return fmt.Sprintf(format, args...)
	}
	return l.printer.Sprintf(format, args...)
}

// Timestamp renders t the way a browser would for this locale.
func (l Locale) Timestamp(t time.Time) string {
	base, _ := l.Tag.Base()
	switch base.String() {
	case "ru", "de", "uk":
		return t.Format("02.01.2006, 15:04:05")
	case "en":
		return t.Format("1/2/2006, 3:04:05 PM")
	default:
		return t.Format("2006-01-02 15:04:05")
	}
}
