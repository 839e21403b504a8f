package conformance

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"shimmer/internal/config"
	"shimmer/internal/driver"
)

// Result is the outcome of running one script.
type Result struct {
	Name     string
	File     string
	Passed   bool
	Duration time.Duration
	Error    error
	Message  string
}

type Stats struct {
	Total     int
	Passed    int
	Failed    int
	TotalTime time.Duration
}

// Reporter receives results as scripts finish.
type Reporter interface {
	ScriptPassed(result Result)
	ScriptFailed(result Result)
	Summary(stats *Stats)
}

type Config struct {
	Verbose  bool
	FailFast bool
	// Filter keeps only scripts whose path contains it.
	Filter  string
	Timeout time.Duration
	// OutputFormat is "text" or "json".
	OutputFormat string
	Color        bool
	Out          io.Writer
	// Language is handed to every script's driver.
	Language *config.Config
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		OutputFormat: "text",
		Out:          os.Stdout,
		Language:     config.Default(),
	}
}

type Runner struct {
	config   *Config
	reporter Reporter
	stats    *Stats
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Language == nil {
		cfg.Language = config.Default()
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	var reporter Reporter
	switch cfg.OutputFormat {
	case "json":
		reporter = NewJSONReporter(cfg.Out)
	default:
		reporter = NewTextReporter(cfg.Out, cfg.Verbose, cfg.Color)
	}

	return &Runner{
		config:   cfg,
		reporter: reporter,
		stats:    &Stats{},
	}
}

// Discover returns every file under dir carrying ext, sorted.
func Discover(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "discover scripts in %s", dir)
	}
	slices.Sort(files)
	return files, nil
}

// RunDir runs every script under dir and reports the totals.
func (r *Runner) RunDir(dir string) (*Stats, error) {
	files, err := Discover(dir, r.config.Language.Extension)
	if err != nil {
		return nil, err
	}
	return r.Run(files), nil
}

func (r *Runner) Run(files []string) *Stats {
	start := time.Now()

	for _, file := range files {
		if r.config.Filter != "" && !strings.Contains(file, r.config.Filter) {
			continue
		}

		result := r.runScript(file)
		r.stats.Total++
		if result.Passed {
			r.stats.Passed++
			r.reporter.ScriptPassed(result)
		} else {
			r.stats.Failed++
			r.reporter.ScriptFailed(result)
			if r.config.FailFast {
				break
			}
		}
	}

	r.stats.TotalTime = time.Since(start)
	r.reporter.Summary(r.stats)
	return r.stats
}

func (r *Runner) runScript(path string) Result {
	result := Result{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		File: path,
	}

	source, err := os.ReadFile(path)
	if err != nil {
		result.Error = errors.Wrap(err, "read script")
		return result
	}
	script := ParseScript(string(source))

	var out, errOut bytes.Buffer
	d, err := driver.New(
		driver.WithOutput(&out),
		driver.WithErrorOutput(&errOut),
		driver.WithConfig(r.config.Language),
	)
	if err == nil {
		err = registerAssertions(d.Globals())
	}
	if err != nil {
		result.Error = err
		return result
	}

	start := time.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(script.Source)
	}()

	select {
	case <-done:
	case <-time.After(r.config.Timeout):
		d.Stop()
		<-done
		result.Duration = time.Since(start)
		result.Error = errors.Errorf("script timed out after %v", r.config.Timeout)
		return result
	}
	result.Duration = time.Since(start)

	failures := mismatch("output", script.Output, lines(out.String()))
	failures = append(failures, mismatch("diagnostics", script.Errors, lines(errOut.String()))...)
	result.Message = strings.Join(failures, "\n")
	result.Passed = len(failures) == 0
	return result
}

// mismatch describes how got differs from want. Line-by-line differences
// are listed when the counts agree; otherwise both sides are written out
// in full.
func mismatch(what string, want, got []string) []string {
	diff := pretty.Diff(want, got)
	if len(diff) == 0 {
		return nil
	}
	out := []string{what + " mismatch:"}
	if len(want) == len(got) {
		return append(out, diff...)
	}
	out = append(out, "  want:")
	for _, line := range want {
		out = append(out, "    "+line)
	}
	out = append(out, "  got:")
	for _, line := range got {
		out = append(out, "    "+line)
	}
	return out
}
