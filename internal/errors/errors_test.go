package errors

import "testing"

func TestErrorShapes(t *testing.T) {
	tests := []struct {
		name     string
		err      *ShimmerError
		expected string
	}{
		{
			"syntax error at lexeme",
			NewSyntaxError("Expected expression.", " at '-'", 1, 5),
			"[Line 1, Col 5] Error at '-': Expected expression.",
		},
		{
			"syntax error at end",
			NewSyntaxError("Expect ';' after print expression.", " at end", 3, 9),
			"[Line 3, Col 9] Error at end: Expect ';' after print expression.",
		},
		{
			"scanner error",
			NewSyntaxError("Unexpected character '$'.", "", 2, 1),
			"[Line 2, Col 1] Error: Unexpected character '$'.",
		},
		{
			"resolve error",
			NewResolveError("Can't return from top-level code.", 4),
			"[Line 4] Error: Can't return from top-level code.",
		},
		{
			"runtime error",
			NewRuntimeError("Division by 0.", 7),
			"[Line 7] Runtime error: Division by 0.",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.Error(); got != test.expected {
				t.Errorf("got %q, want %q", got, test.expected)
			}
		})
	}
}

func TestIs(t *testing.T) {
	var err error = NewRuntimeError("boom", 1)
	if !Is(err, RuntimeError) {
		t.Error("expected runtime error to match RuntimeError")
	}
	if Is(err, SyntaxError) {
		t.Error("runtime error must not match SyntaxError")
	}
}
