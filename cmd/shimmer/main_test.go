package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = "testdata/shimmer.yaml"

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	code = run(append([]string{"shimmer"}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := runCLI(t, "", "-v")
	if code != exitOK || !strings.HasPrefix(out, "Shimmer v0.0.1 (ALPHA)\n") {
		t.Errorf("-v: code %d, output %q", code, out)
	}

	code, out, _ = runCLI(t, "", "-h")
	if code != exitOK || !strings.HasPrefix(out, "Usage: shimmer [options] [file]") {
		t.Errorf("-h: code %d, output %q", code, out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown option", []string{"-x"}},
		{"missing option value", []string{"-c"}},
		{"too many files", []string{"a.shim", "b.shim"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", test.args...)
			if code != exitUsage {
				t.Errorf("exit code %d, want %d", code, exitUsage)
			}
			if !strings.Contains(errOut, "Usage: shimmer") {
				t.Errorf("stderr %q lacks usage", errOut)
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-c", testConfig, "testdata/hello.shim")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if out != "\"hello world\"\n" {
		t.Errorf("got %q", out)
	}

	code, _, errOut = runCLI(t, "", "-c", testConfig, "testdata/nope.shim")
	if code != exitError || errOut != "Error: File 'testdata/nope.shim' not found.\n" {
		t.Errorf("missing file: code %d, stderr %q", code, errOut)
	}
}

func TestPipedInput(t *testing.T) {
	code, out, _ := runCLI(t, "print 1 + 1;", "-c", testConfig)
	if code != exitOK || out != "2\n" {
		t.Errorf("code %d, output %q", code, out)
	}

	code, _, errOut := runCLI(t, "print ;", "-c", testConfig)
	if code != exitError || errOut != "[Line 1, Col 7] Error at ';': Expected expression.\n" {
		t.Errorf("syntax error: code %d, stderr %q", code, errOut)
	}
}

func TestFormatFlag(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-F", "testdata/messy.shim")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	want := "function twice(x) {\n    return x * 2;\n}\n\nprint twice(21);\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestConformanceFlag(t *testing.T) {
	dir := filepath.Join("..", "..", "internal", "conformance", "testdata")

	code, out, _ := runCLI(t, "", "-c", testConfig, "-T", filepath.Join(dir, "pass"))
	if code != exitOK || !strings.Contains(out, "6 scripts, 6 passed, 0 failed") {
		t.Errorf("pass: code %d, output %q", code, out)
	}

	code, out, _ = runCLI(t, "", "-c", testConfig, "-T", filepath.Join(dir, "fail"))
	if code != exitError || !strings.Contains(out, "2 scripts, 0 passed, 2 failed") {
		t.Errorf("fail: code %d, output %q", code, out)
	}
}

func TestDebugAndASTDump(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-c", testConfig, "-d", "-a", "testdata/hello.shim")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	for _, want := range []string{"level=DEBUG", "msg=resolved", "parser.PrintStmt"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr lacks %q:\n%s", want, errOut)
		}
	}
}

func TestBadConfig(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-c", "testdata/missing.yaml", "testdata/hello.shim")
	if code != exitError || !strings.Contains(errOut, "config: open testdata/missing.yaml") {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}
