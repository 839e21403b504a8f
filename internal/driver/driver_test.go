package driver

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"shimmer/internal/config"
)

func newDriver(t *testing.T, opts ...Option) (*Driver, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithErrorOutput(&errOut)}, opts...)
	d, err := New(opts...)
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	return d, &out, &errOut
}

// Test helper to run a program that must succeed
func runTest(t *testing.T, source string, expected ...string) {
	t.Helper()
	d, out, errOut := newDriver(t)
	if !d.Run(source) {
		t.Fatalf("run failed:\n%s", errOut.String())
	}
	want := ""
	if len(expected) > 0 {
		want = strings.Join(expected, "\n") + "\n"
	}
	if out.String() != want {
		t.Errorf("output:\ngot:\n%s\nwant:\n%s", out.String(), want)
	}
}

// Test helper to run a program that must fail with the given diagnostics
func runErrorTest(t *testing.T, source string, expected ...string) {
	t.Helper()
	d, _, errOut := newDriver(t)
	if d.Run(source) {
		t.Fatalf("expected %q to fail", source)
	}
	want := strings.Join(expected, "\n") + "\n"
	if errOut.String() != want {
		t.Errorf("diagnostics:\ngot:\n%s\nwant:\n%s", errOut.String(), want)
	}
}

// ===== Program Tests =====

func TestIfStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"if (true) print 1;", []string{"1"}},
		{"if (true) print 1; else print 2;", []string{"1"}},
		{"if (false) print 1;", nil},
		{"if (false) print 1; else print 2;", []string{"2"}},
		{"var x = 1; if (true) { x = 2; } print x;", []string{"2"}},
		{"var x = 1; if (false) { x = 2; } print x;", []string{"1"}},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			runTest(t, test.input, test.expected...)
		})
	}
}

func TestLoops(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"while", "var i = 0; var sum = 0; while (i < 3) { i = i + 1; sum = sum + i; } print sum;", "6"},
		{"for", "var sum = 0; for (var i = 0; i < 3; i = i + 1) { sum = sum + i + 1; } print sum;", "6"},
		{"do while", "var i = 1; var sum = 0; do { sum = sum + i; i = i + 1; } while (i <= 3); print sum;", "6"},
		{
			"break",
			"var sum = 0; for (var i = 1; i < 10; i = i + 1) { if (i == 5) break; sum = sum + i; } print sum;",
			"10",
		},
		{
			"continue",
			"var sum = 0; for (var i = 1; i < 10; i = i + 1) { if (i % 2 == 0) continue; sum = sum + i; } print sum;",
			"25",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runTest(t, test.input, test.expected)
		})
	}
}

func TestFunctions(t *testing.T) {
	runTest(t, "print clock;", "<native clock>")
	runTest(t, "function emptyFunc() {}\n\nprint emptyFunc;", "<fn emptyFunc>")
	runTest(t, `
function isEven(n) {
  if (n % 2 == 0) return true;
  return false;
}

print isEven(1);
print isEven(2);`, "false", "true")
}

func TestClosures(t *testing.T) {
	runTest(t, `
function makeCounter() {
  var i = 0;
  function count() {
    i = i + 1;
    print i;
  }

  return count;
}

var counter = makeCounter();
counter();
counter();
counter();`, "1", "2", "3")
}

// ===== Diagnostic Tests =====

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"function body not a block", "function f() 1;", []string{"[Line 1, Col 14] Error at '1': Expect '{' before function body."}},
		{"missing parameter comma", "function printSum(a b) {}", []string{"[Line 1, Col 21] Error at 'b': Expect ')' after parameters."}},
		{"break outside loop", "break;", []string{"[Line 1, Col 1] Error at 'break': Must be inside a loop to break."}},
		{"continue outside loop", "continue;", []string{"[Line 1, Col 1] Error at 'continue': Must be inside a loop to continue."}},
		{"return at top level", "return 1;", []string{"[Line 1] Error: Can't return from top-level code."}},
		{"division by zero", "print 1 / 0;", []string{"[Line 1] Runtime error: Division by 0."}},
		{
			"independent syntax errors",
			"print ;\nvar x = 1;\nprint x +;",
			[]string{
				"[Line 1, Col 7] Error at ';': Expected expression.",
				"[Line 3, Col 10] Error at ';': Expected expression.",
			},
		},
		{
			"resolution errors are all reported",
			"{ var a = 1; var a = 2; }\n{ var b = b; }",
			[]string{
				"[Line 1] Error: Variable 'a' already defined in this scope.",
				"[Line 2] Error: Can't read local variable 'b' in its own initializer.",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runErrorTest(t, test.input, test.expected...)
		})
	}
}

func TestSyntaxErrorSkipsExecution(t *testing.T) {
	d, out, _ := newDriver(t)
	if d.Run("print 1;\nprint ;") {
		t.Fatal("expected failure")
	}
	if out.Len() != 0 {
		t.Errorf("nothing may run after a syntax error, got %q", out.String())
	}
}

func TestRuntimeErrorKeepsOutput(t *testing.T) {
	d, out, errOut := newDriver(t)
	if d.Run("print 1;\nprint -nil;\nprint 2;") {
		t.Fatal("expected failure")
	}
	if out.String() != "1\n" {
		t.Errorf("got output %q, want %q", out.String(), "1\n")
	}
	if want := "[Line 2] Runtime error: Bad operand type for unary '-': 'Nil'.\n"; errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}

func TestGlobalsPersistBetweenRuns(t *testing.T) {
	d, out, errOut := newDriver(t)
	if !d.Run("var greeting = \"hi\";") {
		t.Fatalf("first run: %s", errOut.String())
	}
	if !d.Run("print greeting;") {
		t.Fatalf("second run: %s", errOut.String())
	}
	if out.String() != "\"hi\"\n" {
		t.Errorf("got %q", out.String())
	}
	if d.Run("var greeting = 1;") {
		t.Error("redefining a global in a later run must fail")
	}
}

// ===== File Tests =====

func TestRunFile(t *testing.T) {
	d, out, errOut := newDriver(t)
	if !d.RunFile(filepath.Join("testdata", "fib.shim")) {
		t.Fatalf("run file: %s", errOut.String())
	}
	want := strings.Join([]string{"0", "1", "1", "2", "3", "5", "8", "13", "21", "34"}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestRunFileMissing(t *testing.T) {
	path := filepath.Join("testdata", "bogey.shim")
	d, _, errOut := newDriver(t)
	if d.RunFile(path) {
		t.Fatal("expected failure")
	}
	if want := "Error: File '" + path + "' not found.\n"; errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}

func TestRunFileWrongExtension(t *testing.T) {
	d, _, errOut := newDriver(t)
	if d.RunFile(filepath.Join("testdata", "fib")) {
		t.Fatal("expected failure")
	}
	if want := "Error: File 'fib' is not a .shim file.\n"; errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}

func TestRunFileConfiguredExtension(t *testing.T) {
	cfg := config.Default()
	cfg.Extension = ".txt"
	d, _, errOut := newDriver(t, WithConfig(cfg))
	if d.RunFile(filepath.Join("testdata", "fib.shim")) {
		t.Fatal("expected failure")
	}
	if want := "Error: File 'fib.shim' is not a .txt file.\n"; errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}

func TestConfiguredArgumentLimit(t *testing.T) {
	cfg := config.Default()
	cfg.MaxArguments = 1
	d, _, errOut := newDriver(t, WithConfig(cfg))
	if d.Run("function f(a, b) {}") {
		t.Fatal("expected failure")
	}
	if want := "[Line 1, Col 15] Error at 'b': Exceeded maximum of 1 parameters.\n"; errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}

// ===== Ambient Tests =====

func TestASTDump(t *testing.T) {
	var dump bytes.Buffer
	d, _, _ := newDriver(t, WithASTDump(&dump))
	if !d.Run("print 1;") {
		t.Fatal("run failed")
	}
	if !strings.Contains(dump.String(), "parser.PrintStmt") {
		t.Errorf("dump does not describe the print statement:\n%s", dump.String())
	}
}

func TestDebugLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d, _, _ := newDriver(t, WithLogger(logger))
	if !d.Run("function f() {} f();") {
		t.Fatal("run failed")
	}

	for _, want := range []string{"session=" + d.Session(), "msg=resolved", "msg=call", "function=f"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs do not contain %q:\n%s", want, logs.String())
		}
	}
}

func TestDiagnosticWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewDiagnosticWriter(&buf)
	w.Write([]byte("[Line 1] Runtime error: Division by 0.\n"))

	got := buf.String()
	if !strings.HasPrefix(got, "\x1b[31m") || !strings.HasSuffix(got, "\x1b[0m\n") {
		t.Errorf("diagnostic not coloured: %q", got)
	}
	if !strings.Contains(got, "Division by 0.") {
		t.Errorf("diagnostic text lost: %q", got)
	}
}

func TestDiagnosticWriterIgnoresGlobalNoColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	var buf bytes.Buffer
	w := NewDiagnosticWriter(&buf)
	w.Write([]byte("first\nsecond\n"))

	want := "\x1b[31mfirst\x1b[0m\n\x1b[31msecond\x1b[0m\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
