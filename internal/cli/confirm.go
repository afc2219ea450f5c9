package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"docverify/internal/port"
)

// PromptConfirmer asks the operator on the terminal. Only "y" or "yes"
// approves.
type PromptConfirmer struct {
	in  *LineReader
	out io.Writer
}

var _ port.Confirmer = (*PromptConfirmer)(nil)

// NewPromptConfirmer creates a confirmer reading answers from in.
func NewPromptConfirmer(in *LineReader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: in, out: out}
}

// Confirm prints prompt and waits for an answer.
func (c *PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprint(c.out, WarningStyle.Render(prompt)+" (y/N): "); err != nil {
		return false, err
	}
	answer, err := c.in.ReadLine(ctx)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AlwaysConfirm approves every prompt. Used for --force.
type AlwaysConfirm struct{}

// Confirm always returns true.
func (AlwaysConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }
