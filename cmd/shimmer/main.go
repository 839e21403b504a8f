// cmd/shimmer/main.go
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mattn/go-isatty"

	"shimmer/internal/config"
	"shimmer/internal/conformance"
	"shimmer/internal/driver"
	"shimmer/internal/formatter"
	"shimmer/internal/repl"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Build variables - can be set during build with ldflags
var (
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(args, "hvdac:F:T:")
	if err != nil {
		fmt.Fprintf(stderr, "shimmer: %v\n", err)
		showUsage(stderr)
		return exitUsage
	}

	var (
		debug, dumpAST      bool
		configPath          string
		formatFile, testDir string
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			showUsage(stdout)
			return exitOK
		case 'v':
			showVersion(stdout)
			return exitOK
		case 'd':
			debug = true
		case 'a':
			dumpAST = true
		case 'c':
			configPath = opt.Value
		case 'F':
			formatFile = opt.Value
		case 'T':
			testDir = opt.Value
		}
	}

	rest := args[optind:]
	if len(rest) > 1 {
		showUsage(stderr)
		return exitUsage
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	level := cfg.Level()
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("config", "path", cfg.Path, "extension", cfg.Extension)

	switch {
	case formatFile != "":
		return formatSource(formatFile, stdout, stderr)
	case testDir != "":
		return runConformance(testDir, cfg, useColor(cfg, stdout), stdout, stderr)
	}

	errOut := stderr
	if useColor(cfg, stderr) {
		errOut = driver.NewDiagnosticWriter(stderr)
	}
	driverOpts := []driver.Option{
		driver.WithOutput(stdout),
		driver.WithErrorOutput(errOut),
		driver.WithConfig(cfg),
		driver.WithLogger(logger),
	}
	if dumpAST {
		driverOpts = append(driverOpts, driver.WithASTDump(stderr))
	}
	d, err := driver.New(driverOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if len(rest) == 1 {
		return status(d.RunFile(rest[0]))
	}
	if isTerminal(stdin) {
		if err := repl.Start(d, cfg, logger); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	source, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: reading standard input: %v\n", err)
		return exitError
	}
	return status(d.Run(string(source)))
}

func formatSource(path string, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: File '%s' not found.\n", path)
		return exitError
	}
	formatted, err := formatter.Source(string(source))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprint(stdout, formatted)
	return exitOK
}

func runConformance(dir string, cfg *config.Config, colored bool, stdout, stderr io.Writer) int {
	runnerCfg := conformance.DefaultConfig()
	runnerCfg.Out = stdout
	runnerCfg.Color = colored
	runnerCfg.Language = cfg

	stats, err := conformance.NewRunner(runnerCfg).RunDir(dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if stats.Failed > 0 {
		return exitError
	}
	return exitOK
}

func status(ok bool) int {
	if ok {
		return exitOK
	}
	return exitError
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func useColor(cfg *config.Config, w io.Writer) bool {
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func showUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: shimmer [options] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Runs file, or starts an interactive session when no file is given.")
	fmt.Fprintln(w, "Piped standard input is run as a single program.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -h          Show this help")
	fmt.Fprintln(w, "  -v          Show version information")
	fmt.Fprintln(w, "  -d          Enable debug logging")
	fmt.Fprintln(w, "  -a          Dump the parsed program to stderr before running")
	fmt.Fprintln(w, "  -c config   Read configuration from config instead of .shimmer.yaml")
	fmt.Fprintln(w, "  -F file     Print file in canonical format")
	fmt.Fprintln(w, "  -T dir      Run the conformance scripts under dir")
}

func showVersion(w io.Writer) {
	fmt.Fprintln(w, repl.Banner)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	if GitCommit != "unknown" {
		fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
	}
}
