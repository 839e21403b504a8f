// internal/driver/driver.go
package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"shimmer/internal/config"
	"shimmer/internal/interp"
	"shimmer/internal/parser"
	"shimmer/internal/resolver"
	"shimmer/internal/stdlib"
)

// Driver runs source text through parsing, resolution and interpretation.
// Globals persist between runs of the same Driver.
type Driver struct {
	interp *interp.Interpreter
	cfg    *config.Config

	out    io.Writer
	errOut io.Writer
	astOut io.Writer
	logger *slog.Logger

	session string
}

type Option func(*Driver)

// WithOutput sets the sink for print statements. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.out = w
	}
}

// WithErrorOutput sets the sink for diagnostics. Defaults to os.Stderr.
func WithErrorOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.errOut = w
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(d *Driver) {
		d.cfg = cfg
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithASTDump writes every successfully parsed program to w before it runs.
func WithASTDump(w io.Writer) Option {
	return func(d *Driver) {
		d.astOut = w
	}
}

func New(opts ...Option) (*Driver, error) {
	d := &Driver{
		cfg:     config.Default(),
		out:     os.Stdout,
		errOut:  os.Stderr,
		logger:  slog.New(slog.DiscardHandler),
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("session", d.session)

	d.interp = interp.New(
		interp.WithOutput(d.out),
		interp.WithLogger(d.logger),
	)
	if err := stdlib.Register(d.interp.Globals()); err != nil {
		return nil, errors.Wrap(err, "driver: register natives")
	}
	return d, nil
}

// Session identifies this driver in log output.
func (d *Driver) Session() string {
	return d.session
}

// Globals returns the environment shared by every run.
func (d *Driver) Globals() *interp.Environment {
	return d.interp.Globals()
}

// Stop interrupts a Run in progress on another goroutine. The interrupted
// run reports interp.ErrStopped on the error output.
func (d *Driver) Stop() {
	d.interp.Stop()
}

// Run executes source and reports whether every phase succeeded. A failing
// phase skips the ones after it; output printed before a runtime error is
// kept.
func (d *Driver) Run(source string) bool {
	d.logger.Debug("run", "size", humanize.Bytes(uint64(len(source))))

	p := parser.NewParser(source,
		parser.WithErrorWriter(d.errOut),
		parser.WithMaxArguments(d.cfg.MaxArguments),
	)
	stmts := p.Parse()
	if p.HadError() {
		d.logger.Debug("parse failed", "errors", len(p.Errors))
		return false
	}
	d.logger.Debug("parsed", "statements", len(stmts))

	if d.astOut != nil {
		for _, stmt := range stmts {
			pretty.Fprintf(d.astOut, "%# v\n", stmt)
		}
	}

	r := resolver.New(resolver.WithErrorWriter(d.errOut))
	locals := r.Resolve(stmts)
	if r.HadError() {
		d.logger.Debug("resolve failed", "errors", len(r.Errors))
		return false
	}
	d.logger.Debug("resolved", "locals", len(locals))

	if err := d.interp.Interpret(stmts, locals); err != nil {
		fmt.Fprintln(d.errOut, err)
		return false
	}
	return true
}

// RunFile checks that path exists and carries the configured extension,
// then runs its contents.
func (d *Driver) RunFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		fmt.Fprintf(d.errOut, "Error: File '%s' not found.\n", path)
		return false
	}
	if filepath.Ext(path) != d.cfg.Extension {
		fmt.Fprintf(d.errOut, "Error: File '%s' is not a %s file.\n", filepath.Base(path), d.cfg.Extension)
		return false
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(d.errOut, "Error: %v\n", errors.Wrapf(err, "read %s", path))
		return false
	}
	d.logger.Debug("loaded", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	return d.Run(string(source))
}
