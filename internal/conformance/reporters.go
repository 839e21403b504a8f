package conformance

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// TextReporter writes one line per script and a closing summary.
type TextReporter struct {
	out     io.Writer
	verbose bool
	pass    *color.Color
	fail    *color.Color
}

func NewTextReporter(out io.Writer, verbose, colored bool) *TextReporter {
	r := &TextReporter{
		out:     out,
		verbose: verbose,
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
	}
	if colored {
		r.pass.EnableColor()
		r.fail.EnableColor()
	} else {
		r.pass.DisableColor()
		r.fail.DisableColor()
	}
	return r
}

func (r *TextReporter) ScriptPassed(result Result) {
	r.pass.Fprintf(r.out, "PASS %s", result.File)
	fmt.Fprintf(r.out, " (%v)\n", result.Duration.Round(time.Microsecond))
}

func (r *TextReporter) ScriptFailed(result Result) {
	r.fail.Fprintf(r.out, "FAIL %s", result.File)
	fmt.Fprintf(r.out, " (%v)\n", result.Duration.Round(time.Microsecond))

	if result.Error != nil {
		fmt.Fprintf(r.out, "    error: %v\n", result.Error)
	}
	if result.Message != "" {
		for _, line := range strings.Split(result.Message, "\n") {
			fmt.Fprintf(r.out, "    %s\n", line)
		}
	}
}

func (r *TextReporter) Summary(stats *Stats) {
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintf(r.out, "%d scripts, %d passed, %d failed in %v\n",
		stats.Total, stats.Passed, stats.Failed, stats.TotalTime.Round(time.Millisecond))
	if r.verbose && stats.Failed == 0 {
		r.pass.Fprintln(r.out, "All scripts passed.")
	}
}

// JSONReporter collects results and writes them as one document at the end.
type JSONReporter struct {
	out     io.Writer
	results []JSONResult
}

type JSONResult struct {
	Script   string        `json:"script"`
	File     string        `json:"file"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Message  string        `json:"message,omitempty"`
}

type JSONSummary struct {
	Results   []JSONResult  `json:"results"`
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	TotalTime time.Duration `json:"total_time"`
}

func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out, results: make([]JSONResult, 0)}
}

func (r *JSONReporter) ScriptPassed(result Result) {
	r.results = append(r.results, r.convert(result))
}

func (r *JSONReporter) ScriptFailed(result Result) {
	r.results = append(r.results, r.convert(result))
}

func (r *JSONReporter) convert(result Result) JSONResult {
	jr := JSONResult{
		Script:   result.Name,
		File:     result.File,
		Passed:   result.Passed,
		Duration: result.Duration,
		Message:  result.Message,
	}
	if result.Error != nil {
		jr.Error = result.Error.Error()
	}
	return jr
}

func (r *JSONReporter) Summary(stats *Stats) {
	summary := JSONSummary{
		Results:   r.results,
		Total:     stats.Total,
		Passed:    stats.Passed,
		Failed:    stats.Failed,
		TotalTime: stats.TotalTime,
	}

	output, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Fprintf(r.out, "Error generating JSON output: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, string(output))
}
