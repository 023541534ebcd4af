package engine

import (
	"fmt"

	"github.com/louisbranch/diamond/internal/platform/i18n/catalog"
	"golang.org/x/text/message"
)

// narrator renders play-by-play lines from the plays catalog.
type narrator struct {
	printer *message.Printer
}

func newNarrator() narrator {
	return narrator{printer: catalog.Default().Printer(catalog.BaseLocale)}
}

func (n narrator) line(key string, args ...any) string {
	return n.printer.Sprintf(key, args...)
}

// base renders a base as "1st", "2nd", "3rd" or "home".
func (n narrator) base(b Base) string {
	return n.printer.Sprintf(fmt.Sprintf("plays.base.%d", b))
}
