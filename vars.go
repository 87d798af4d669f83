package squawk

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

// Kind discriminates the value a user variable holds.
type Kind int

const (
	KindBool Kind = iota
	KindString
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	}
	return "unknown"
}

// Value is a tagged variant: only the field matching Kind is
// meaningful.
type Value struct {
	Kind  Kind
	Bool  bool
	Str   string
	Int   int
	Float float64
}

var (
	ErrVarUnknown = errors.New("variable is not declared")
	ErrVarExists  = errors.New("variable is already declared")
	ErrVarName    = errors.New("invalid variable name")
	ErrVarType    = errors.New("value does not match variable type")
)

var varName = regexp.MustCompile(`^[a-z][a-zA-Z0-9_]+$`)

// Vars is a concurrency-safe store of user-defined variables. A
// variable must be declared before it can be read or assigned.
type Vars struct {
	mu   sync.Mutex
	vals map[string]Value
}

func NewVars() *Vars {
	return &Vars{vals: make(map[string]Value)}
}

// Declare registers a new variable. The name must start with a
// lowercase letter and continue with word characters.
func (v *Vars) Declare(name string, val Value) error {
	if !varName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrVarName, name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.vals[name]; ok {
		return fmt.Errorf("%w: %q", ErrVarExists, name)
	}
	v.vals[name] = val
	return nil
}

// Get returns the current value of a declared variable.
func (v *Vars) Get(name string) (Value, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.vals[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrVarUnknown, name)
	}
	return val, nil
}

// Set assigns a declared variable. The new value must carry the same
// kind the variable was declared with, except that an int variable
// accepts a float and is upgraded to float from then on.
func (v *Vars) Set(name string, val Value) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	cur, ok := v.vals[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrVarUnknown, name)
	}
	if val.Kind != cur.Kind {
		if cur.Kind == KindInt && val.Kind == KindFloat {
			v.vals[name] = val
			return nil
		}
		return fmt.Errorf("%w: %q is %s, got %s", ErrVarType, name, cur.Kind, val.Kind)
	}
	v.vals[name] = val
	return nil
}

// SetString parses raw according to the variable's declared kind and
// assigns it. Bools accept "true" and "false" only. A fractional
// number assigned to an int variable upgrades it to float.
func (v *Vars) SetString(name, raw string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	cur, ok := v.vals[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrVarUnknown, name)
	}

	val, err := parseValue(cur.Kind, raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrVarType, name, err)
	}
	v.vals[name] = val
	return nil
}

// Delete removes a declared variable.
func (v *Vars) Delete(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.vals[name]; !ok {
		return fmt.Errorf("%w: %q", ErrVarUnknown, name)
	}
	delete(v.vals, name)
	return nil
}

// KindOf reports the declared kind of a variable.
func (v *Vars) KindOf(name string) (Kind, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.vals[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrVarUnknown, name)
	}
	return val.Kind, nil
}

// Names returns the declared variable names, unordered.
func (v *Vars) Names() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	names := make([]string, 0, len(v.vals))
	for name := range v.vals {
		names = append(names, name)
	}
	return names
}

func parseValue(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindBool:
		switch raw {
		case "true":
			return Value{Kind: KindBool, Bool: true}, nil
		case "false":
			return Value{Kind: KindBool}, nil
		}
		return Value{}, fmt.Errorf("want true or false, got %q", raw)
	case KindString:
		return Value{Kind: KindString, Str: raw}, nil
	case KindInt:
		if n, err := strconv.Atoi(raw); err == nil {
			return Value{Kind: KindInt, Int: n}, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("want a number, got %q", raw)
		}
		return Value{Kind: KindFloat, Float: f}, nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("want a number, got %q", raw)
		}
		return Value{Kind: KindFloat, Float: f}, nil
	}
	return Value{}, fmt.Errorf("unknown kind %d", kind)
}
