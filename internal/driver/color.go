package driver

import (
	"bytes"
	"io"

	"github.com/fatih/color"
)

// diagnosticWriter colours every line written through it.
type diagnosticWriter struct {
	w io.Writer
	c *color.Color
}

// NewDiagnosticWriter wraps w so diagnostics are printed in red, whether or
// not w is a terminal.
func NewDiagnosticWriter(w io.Writer) io.Writer {
	c := color.New(color.FgRed)
	c.EnableColor()
	return &diagnosticWriter{w: w, c: c}
}

func (d *diagnosticWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.SplitAfter(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		text := bytes.TrimSuffix(line, []byte("\n"))
		if _, err := io.WriteString(d.w, d.c.Sprint(string(text))); err != nil {
			return 0, err
		}
		if len(text) < len(line) {
			if _, err := io.WriteString(d.w, "\n"); err != nil {
				return 0, err
			}
		}
	}
	return len(p), nil
}
