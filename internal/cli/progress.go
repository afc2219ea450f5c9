package cli

import (
	"io"

	"github.com/phuslu/log"
	"github.com/schollz/progressbar/v3"
)

// WithSpinner runs fn while a spinner labeled desc animates on w. The
// spinner is cleared when fn returns. The unbounded bar animates itself
// until Finish.
func WithSpinner(w io.Writer, desc string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
	)

	err := fn()
	if ferr := bar.Finish(); ferr != nil {
		log.Debug().Err(ferr).Msg("cli.WithSpinner: spinner finish failed")
	}
	return err
}
