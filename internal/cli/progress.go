package cli

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// progressWriter is where spinners draw. Tests replace it.
var progressWriter = os.Stderr

// WithProgress runs fn behind a spinner showing msg. When fn returns, the
// spinner is replaced by success or failed. Nothing is drawn when quiet is set
// or stderr is not a terminal.
func WithProgress[T any](quiet bool, msg, success, failed string, fn func() (T, error)) (T, error) {
	if quiet {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(progressWriter))
	s.Suffix = " " + msg
	s.Start()

	result, err := fn()
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("✗ "+failed) + "\n"
	} else {
		s.FinalMSG = text.FgGreen.Sprint("✓ "+success) + "\n"
	}
	s.Stop()

	return result, err
}
