package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jira-tools/jira-report/internal/render"
)

// Writer handles output for a command, dispatching between a JSON
// envelope and human-readable text based on mode flags.
type Writer struct {
	JSONMode  bool
	QuietMode bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// New creates a Writer configured by the given mode flags.
// Data output goes to os.Stdout; diagnostics go to os.Stderr.
func New(jsonMode, quietMode bool) *Writer {
	return &Writer{
		JSONMode:  jsonMode,
		QuietMode: quietMode,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Success renders a successful result. In JSON mode the data is wrapped
// in a success envelope on Stdout. In human mode the message is printed
// to Stdout; multi-line messages (tables, detail views) pass through
// unchanged so their formatting survives.
func (w *Writer) Success(data any, message string) {
	if w.JSONMode {
		writeJSONSuccess(w.Stdout, data, message)
		return
	}
	writeHumanSuccess(w.Stdout, message)
}

// Error renders an error. In JSON mode the error is wrapped in an error
// envelope on Stdout. In human mode it goes to Stderr with an "Error: "
// prefix. The matching exit code is returned for os.Exit.
func (w *Writer) Error(err error, code ErrorCode) int {
	if w.JSONMode {
		writeJSONError(w.Stdout, err, code)
	} else {
		writeHumanError(w.Stderr, err)
	}
	return ExitCodeForError(code)
}

// Info writes a progress message to Stderr. Suppressed in quiet mode and
// in JSON mode, where the envelope on Stdout is the sole output.
func (w *Writer) Info(format string, args ...any) {
	if w.QuietMode || w.JSONMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if render.ColorsEnabled() {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		fmt.Fprintf(w.Stderr, "%s %s\n", dim.Render("ℹ"), dim.Render(msg))
	} else {
		fmt.Fprintln(w.Stderr, msg)
	}
}

// Warn writes a warning to Stderr. Warnings survive quiet mode but are
// suppressed in JSON mode.
func (w *Writer) Warn(format string, args ...any) {
	if w.JSONMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if render.ColorsEnabled() {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
		fmt.Fprintf(w.Stderr, "%s %s %s\n", warn.Render("⚠"), warn.Render("Warning:"), msg)
	} else {
		fmt.Fprintf(w.Stderr, "Warning: %s\n", msg)
	}
}
