package repl

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/peterh/liner"

	"shimmer/internal/driver"
)

// scriptedReader replays lines and then reports end of input.
type scriptedReader struct {
	lines   []string
	prompts []string
	history []string
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func (s *scriptedReader) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func newREPL(t *testing.T) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	d, err := driver.New(driver.WithOutput(&out), driver.WithErrorOutput(&errOut))
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	return New(d, &out, "> ", slog.New(slog.DiscardHandler)), &out, &errOut
}

func TestGlobalsPersistAcrossLines(t *testing.T) {
	r, out, errOut := newREPL(t)
	in := &scriptedReader{lines: []string{
		"var a = 1;",
		"function inc() { a = a + 1; }",
		"inc();",
		"print a;",
	}}
	if err := r.Loop(in); err != nil {
		t.Fatalf("loop: %v", err)
	}

	want := Banner + "\n2\n\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected diagnostics: %q", errOut.String())
	}
	if len(in.prompts) != 5 || in.prompts[0] != "> " {
		t.Errorf("prompts = %q", in.prompts)
	}
}

func TestErrorsDoNotEndSession(t *testing.T) {
	r, out, errOut := newREPL(t)
	in := &scriptedReader{lines: []string{"print 1 / 0;", "print ;", "print 3;"}}
	if err := r.Loop(in); err != nil {
		t.Fatalf("loop: %v", err)
	}

	if want := Banner + "\n3\n\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
	wantErr := "[Line 1] Runtime error: Division by 0.\n[Line 1, Col 7] Error at ';': Expected expression.\n"
	if errOut.String() != wantErr {
		t.Errorf("got %q, want %q", errOut.String(), wantErr)
	}
}

func TestCommands(t *testing.T) {
	r, out, _ := newREPL(t)
	in := &scriptedReader{lines: []string{"var zed = 1;", ":globals", ":nope", "", "^C", ":quit", "print 1;"}}
	if err := r.Loop(in); err != nil {
		t.Fatalf("loop: %v", err)
	}

	want := Banner + "\n" +
		"clock\ntypeof\nzed\n" +
		"Unknown command ':nope'. Commands: :globals, :quit\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
	if len(in.lines) != 1 {
		t.Errorf(":quit must stop reading, %d lines left", len(in.lines))
	}
	if len(in.history) != 4 {
		t.Errorf("history = %q, want the four non-empty lines", in.history)
	}
}
