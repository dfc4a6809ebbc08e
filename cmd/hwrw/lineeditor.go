package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	HISTORY_FILE = ".hwrw_history"
	HISTORY_SIZE = 500
)

// LineEditor reads shell lines: with readline on a terminal, or plainly
// from piped input.
type LineEditor struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
}

// NewLineEditor creates a line editor for stdin.
func NewLineEditor() *LineEditor {
	interactive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !interactive {
		return &LineEditor{scanner: bufio.NewScanner(os.Stdin)}
	}

	history := ""
	home, err := os.UserHomeDir()
	if err == nil {
		history = filepath.Join(home, HISTORY_FILE)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            history,
		HistoryLimit:           HISTORY_SIZE,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, f("readline unavailable (%v), using basic input", err))
		return &LineEditor{scanner: bufio.NewScanner(os.Stdin)}
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

// GetLine reads a line after showing the prompt. io.EOF marks the end of
// input, including an interrupt on the terminal.
func (le *LineEditor) GetLine(prompt string) (line string, err error) {
	if !le.interactive {
		fmt.Print(prompt)
		if !le.scanner.Scan() {
			err = le.scanner.Err()
			if err == nil {
				err = io.EOF
			}
			return
		}
		line = le.scanner.Text()
		return
	}

	le.rl.SetPrompt(prompt)
	line, err = le.rl.Readline()
	if err == readline.ErrInterrupt {
		err = io.EOF
	}
	if err != nil {
		line = ""
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return
}

// Close saves the history.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}
