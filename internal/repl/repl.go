// internal/repl/repl.go
package repl

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"shimmer/internal/config"
	"shimmer/internal/driver"
)

const Banner = "Shimmer v0.0.1 (ALPHA)"

// LineReader is the part of a line editor the loop needs. *liner.State
// implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type REPL struct {
	driver *driver.Driver
	out    io.Writer
	prompt string
	logger *slog.Logger
}

func New(d *driver.Driver, out io.Writer, prompt string, logger *slog.Logger) *REPL {
	return &REPL{driver: d, out: out, prompt: prompt, logger: logger}
}

// Loop reads lines until end of input or :quit. Each line runs as its own
// program against the driver's persistent globals; failures are reported by
// the driver and do not end the session.
func (r *REPL) Loop(in LineReader) error {
	fmt.Fprintln(r.out, Banner)
	r.logger.Debug("repl started", "session", r.driver.Session())

	for {
		line, err := in.Prompt(r.prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "repl: read line")
		}

		source := strings.TrimSpace(line)
		if source == "" {
			continue
		}
		in.AppendHistory(line)

		if strings.HasPrefix(source, ":") {
			if quit := r.command(source); quit {
				return nil
			}
			continue
		}
		r.driver.Run(line)
	}
}

func (r *REPL) command(cmd string) (quit bool) {
	switch strings.ToLower(cmd) {
	case ":quit":
		return true
	case ":globals":
		for _, name := range r.driver.Globals().Names() {
			fmt.Fprintln(r.out, name)
		}
	default:
		fmt.Fprintf(r.out, "Unknown command '%s'. Commands: :globals, :quit\n", cmd)
	}
	return false
}

// Start runs an interactive session on the terminal with line editing and
// persistent history.
func Start(d *driver.Driver, cfg *config.Config, logger *slog.Logger) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	historyPath := cfg.HistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	err := New(d, os.Stdout, cfg.Prompt, logger).Loop(ln)

	if historyPath != "" {
		f, createErr := os.Create(historyPath)
		if createErr != nil {
			logger.Warn("history not saved", "path", historyPath, "error", createErr)
			return err
		}
		defer f.Close()
		if _, writeErr := ln.WriteHistory(f); writeErr != nil {
			logger.Warn("history not saved", "path", historyPath, "error", writeErr)
		}
	}
	return err
}
