package cli

import (
	"fmt"
	"io"
	"sync"

	"docverify/internal/domain"
	"docverify/internal/port"
)

// Printer writes session notifications to the terminal.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

var _ port.Notifier = (*Printer)(nil)

// NewPrinter creates a Printer. With verbose set, the underlying error is
// printed after the message.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// Notify prints one styled line.
func (p *Printer) Notify(n domain.Notification) {
	msg := n.Message
	if p.verbose && n.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, n.Err)
	}

	var line string
	switch n.Level {
	case domain.NotifyError:
		line = FormatError(msg)
	case domain.NotifyWarning:
		line = FormatWarning(msg)
	default:
		line = FormatInfo(msg)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, line)
}
