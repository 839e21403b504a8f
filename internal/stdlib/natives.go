package stdlib

import (
	"time"

	"github.com/pkg/errors"

	"shimmer/internal/interp"
)

// natives lists every built-in function bound into the global environment
var natives = []*interp.NativeFunction{
	interp.NewNativeFunction("clock", 0, clock),
	interp.NewNativeFunction("typeof", 1, typeOf),
}

// Register binds the native functions in env, normally the interpreter's
// global environment.
func Register(env *interp.Environment) error {
	for _, fn := range natives {
		if err := env.Define(fn.Name(), fn); err != nil {
			return errors.Wrapf(err, "register native %s", fn.Name())
		}
	}
	return nil
}

// clock() - Milliseconds since the Unix epoch
// Example: var start = clock();
func clock(_ *interp.Interpreter, _ []interp.Value) (interp.Value, error) {
	return float64(time.Now().UnixMilli()), nil
}

// typeof(value) - Name of the value's type
// Example: typeof(1) == "Number"
func typeOf(_ *interp.Interpreter, args []interp.Value) (interp.Value, error) {
	return interp.TypeName(args[0]), nil
}
