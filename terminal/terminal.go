// Package terminal holds the pre-flight TTY check and the crash-path reset
// used around the tcell screen.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by RequireTTY when a stream is redirected
var ErrNotTerminal = errors.New("not a terminal")

// Escape sequences written by EmergencyReset
var (
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseSGROff    = []byte("\x1b[?1006l")
	csiCursorShow     = []byte("\x1b[?25h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	csiSGR0           = []byte("\x1b[0m")
	csiAutoWrapOn     = []byte("\x1b[?7h")
)

// RequireTTY fails unless every file is attached to a terminal
func RequireTTY(files ...*os.File) error {
	for _, f := range files {
		if !term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("%s: %w", f.Name(), ErrNotTerminal)
		}
	}
	return nil
}

// EmergencyReset restores a usable terminal after a crash, when the screen's
// own Fini may not have run. Best effort; write errors are ignored.
func EmergencyReset(w io.Writer) {
	for _, seq := range [][]byte{
		csiMouseMotionOff,
		csiMouseDragOff,
		csiMouseClickOff,
		csiMouseSGROff,
		csiCursorShow,
		csiAltScreenExit,
		csiSGR0,
		csiAutoWrapOn,
	} {
		_, _ = w.Write(seq)
	}

	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
