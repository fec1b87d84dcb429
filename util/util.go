// Package util holds small helpers shared by the commands and the player UI.
package util

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/ansi"
	"github.com/pitchplay/pitchplay/filesystem"
	"golang.org/x/term"
)

// Quantify formats count with the singular or plural noun.
func Quantify(count int, singular, plural string) string {
	noun := plural
	if count == 1 {
		noun = singular
	}
	return fmt.Sprintf("%d %s", count, noun)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PrintErasable writes a one-line status to w and returns a function that blanks it.
// Styled text is measured by its printable width.
func PrintErasable(w io.Writer, msg string) (erase func()) {
	_, _ = fmt.Fprintf(w, "\r%s", msg)
	width := ansi.PrintableRuneWidth(msg)
	return func() {
		_, _ = fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", width))
	}
}

// Ignore calls f and drops its error, for deferred closes.
func Ignore(f func() error) {
	_ = f()
}

// Clamp bounds v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Delete removes path, recursively when it is a directory.
// A missing path is reported as fs.ErrNotExist.
func Delete(path string) error {
	fs := filesystem.API()
	if _, err := fs.Stat(path); err != nil {
		return err
	}
	return fs.RemoveAll(path)
}
