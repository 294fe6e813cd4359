package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"

	pstrings "github.com/pyritecloud/pyrite/pkg/strings"
)

// ErrPromptCancelled is returned when the user interrupts a prompt.
var ErrPromptCancelled = errors.New("selection cancelled")

// SelectItem is one choice in a Select prompt.
type SelectItem struct {
	// Value is returned when the item is chosen.
	Value string
	Label string
	// Hint is shown dimmed after the label.
	Hint string
}

// IsInteractive reports whether stdin and stderr are both terminals. Prompts
// are drawn on stderr so stdout stays clean for command output.
func IsInteractive() bool {
	return readline.IsTerminal(int(os.Stdin.Fd())) && readline.IsTerminal(int(os.Stderr.Fd()))
}

// lineReader is the part of *readline.Instance that Select needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Select shows a numbered list of items under title and returns the Value
// of the chosen one.
func Select(title string, items []SelectItem) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		Stdout:          os.Stderr,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	return selectFrom(rl, rl.Stdout(), title, items)
}

func selectFrom(rl lineReader, out io.Writer, title string, items []SelectItem) (string, error) {
	if len(items) == 0 {
		return "", errors.New("nothing to select")
	}

	fmt.Fprintln(out, text.Bold.Sprint(title))
	for i, item := range items {
		line := fmt.Sprintf("  %2d) %s", i+1, pstrings.SingleLine(item.Label, pstrings.LabelMaxLen))
		if item.Hint != "" {
			line += " " + text.FgHiBlack.Sprint(pstrings.SingleLine(item.Hint, pstrings.LabelMaxLen))
		}
		fmt.Fprintln(out, line)
	}

	rl.SetPrompt(fmt.Sprintf("Choose [1-%d]: ", len(items)))
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", ErrPromptCancelled
		}
		if err != nil {
			return "", fmt.Errorf("readline error: %w", err)
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > len(items) {
			fmt.Fprintf(out, "%s\n", text.FgYellow.Sprintf("Enter a number between 1 and %d", len(items)))
			continue
		}
		return items[n-1].Value, nil
	}
}
