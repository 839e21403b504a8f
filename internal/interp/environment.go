package interp

import (
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

var (
	ErrUndefined = errors.New("undefined variable")
	ErrRedefined = errors.New("variable already defined")
)

// Environment is one lexical scope. Closures keep their defining
// environment alive by holding a pointer to it.
type Environment struct {
	parent *Environment
	values map[string]Value
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Define binds name in this scope only.
func (e *Environment) Define(name string, val Value) error {
	if _, ok := e.values[name]; ok {
		return errors.Wrapf(ErrRedefined, "define %s", name)
	}
	e.values[name] = val
	return nil
}

// Get looks name up through the chain of enclosing scopes.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, nil
		}
	}
	return nil, errors.Wrapf(ErrUndefined, "get %s", name)
}

// Assign rebinds the nearest existing name.
func (e *Environment) Assign(name string, val Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return nil
		}
	}
	return errors.Wrapf(ErrUndefined, "assign %s", name)
}

// GetAt reads name from the scope distance hops up the chain.
func (e *Environment) GetAt(distance int, name string) Value {
	env := e.ancestor(distance)
	val, ok := env.values[name]
	if !ok {
		panic(errors.Errorf("environment: %s not bound at distance %d", name, distance))
	}
	return val
}

// AssignAt writes name in the scope distance hops up the chain.
func (e *Environment) AssignAt(distance int, name string, val Value) {
	e.ancestor(distance).values[name] = val
}

// Names returns the names bound in this scope, sorted.
func (e *Environment) Names() []string {
	names := maps.Keys(e.values)
	slices.Sort(names)
	return names
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
		if env == nil {
			panic(errors.Errorf("environment: no scope at distance %d", distance))
		}
	}
	return env
}
