package conformance

import (
	"github.com/pkg/errors"

	"shimmer/internal/interp"
)

// assertions are bound into the globals of every script the runner executes.
var assertions = []*interp.NativeFunction{
	interp.NewNativeFunction("assert", 2, assert),
	interp.NewNativeFunction("assertEqual", 3, assertEqual),
}

func registerAssertions(env *interp.Environment) error {
	for _, fn := range assertions {
		if err := env.Define(fn.Name(), fn); err != nil {
			return errors.Wrapf(err, "register native %s", fn.Name())
		}
	}
	return nil
}

// assert(condition, message) - Fails the script unless condition is truthy
func assert(_ *interp.Interpreter, args []interp.Value) (interp.Value, error) {
	if !interp.IsTruthy(args[0]) {
		return nil, errors.Errorf("Assertion failed: %s", message(args[1]))
	}
	return true, nil
}

// assertEqual(expected, actual, message) - Fails the script unless both values are equal
func assertEqual(_ *interp.Interpreter, args []interp.Value) (interp.Value, error) {
	if !interp.Equal(args[0], args[1]) {
		return nil, errors.Errorf("Assertion failed: %s (expected %s, got %s)",
			message(args[2]), interp.Stringify(args[0]), interp.Stringify(args[1]))
	}
	return true, nil
}

func message(v interp.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return interp.Stringify(v)
}
