package squawk

import (
	"errors"
	"testing"
)

func TestDeclareAndGet(t *testing.T) {
	v := NewVars()

	if err := v.Declare("muted", Value{Kind: KindBool}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	val, err := v.Get("muted")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val.Kind != KindBool || val.Bool {
		t.Errorf("expected a false boolean, got %+v", val)
	}
}

func TestDeclareDuplicate(t *testing.T) {
	v := NewVars()

	if err := v.Declare("greeting", Value{Kind: KindString, Str: "hi"}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if err := v.Declare("greeting", Value{Kind: KindString}); !errors.Is(err, ErrVarExists) {
		t.Errorf("expected ErrVarExists, got %v", err)
	}
}

func TestDeclareBadNames(t *testing.T) {
	v := NewVars()

	for _, name := range []string{"", "X", "x", "1count", "Count", "_count", "has space"} {
		if err := v.Declare(name, Value{Kind: KindInt}); !errors.Is(err, ErrVarName) {
			t.Errorf("%q: expected ErrVarName, got %v", name, err)
		}
	}
	for _, name := range []string{"count", "maxScore", "big_total_2"} {
		if err := v.Declare(name, Value{Kind: KindInt}); err != nil {
			t.Errorf("%q: expected a valid name, got %v", name, err)
		}
	}
}

func TestSetUndeclared(t *testing.T) {
	v := NewVars()

	if err := v.Set("ghost", Value{Kind: KindInt, Int: 1}); !errors.Is(err, ErrVarUnknown) {
		t.Errorf("expected ErrVarUnknown, got %v", err)
	}
	if err := v.SetString("ghost", "1"); !errors.Is(err, ErrVarUnknown) {
		t.Errorf("expected ErrVarUnknown, got %v", err)
	}
	if _, err := v.Get("ghost"); !errors.Is(err, ErrVarUnknown) {
		t.Errorf("expected ErrVarUnknown, got %v", err)
	}
	if err := v.Delete("ghost"); !errors.Is(err, ErrVarUnknown) {
		t.Errorf("expected ErrVarUnknown, got %v", err)
	}
}

func TestSetKindMismatch(t *testing.T) {
	v := NewVars()
	v.Declare("muted", Value{Kind: KindBool})

	if err := v.Set("muted", Value{Kind: KindString, Str: "yes"}); !errors.Is(err, ErrVarType) {
		t.Errorf("expected ErrVarType, got %v", err)
	}
}

func TestSetStringBool(t *testing.T) {
	v := NewVars()
	v.Declare("muted", Value{Kind: KindBool})

	if err := v.SetString("muted", "true"); err != nil {
		t.Fatalf("set true: %v", err)
	}
	val, _ := v.Get("muted")
	if !val.Bool {
		t.Error("expected true")
	}

	if err := v.SetString("muted", "false"); err != nil {
		t.Fatalf("set false: %v", err)
	}
	val, _ = v.Get("muted")
	if val.Bool {
		t.Error("expected false")
	}

	// Only the exact true/false spellings parse.
	for _, raw := range []string{"True", "1", "yes", ""} {
		if err := v.SetString("muted", raw); !errors.Is(err, ErrVarType) {
			t.Errorf("%q: expected ErrVarType, got %v", raw, err)
		}
	}
}

func TestSetStringIntUpgradesToFloat(t *testing.T) {
	v := NewVars()
	v.Declare("count", Value{Kind: KindInt, Int: 10})

	if err := v.SetString("count", "25"); err != nil {
		t.Fatalf("set int: %v", err)
	}
	val, _ := v.Get("count")
	if val.Kind != KindInt || val.Int != 25 {
		t.Fatalf("expected int 25, got %+v", val)
	}

	// A fractional value upgrades the variable to a float.
	if err := v.SetString("count", "1.5"); err != nil {
		t.Fatalf("set float: %v", err)
	}
	val, _ = v.Get("count")
	if val.Kind != KindFloat || val.Float != 1.5 {
		t.Fatalf("expected float 1.5 after upgrade, got %+v", val)
	}

	kind, err := v.KindOf("count")
	if err != nil {
		t.Fatalf("kindof: %v", err)
	}
	if kind != KindFloat {
		t.Errorf("expected the upgrade to stick, got %v", kind)
	}

	if err := v.SetString("count", "not a number"); !errors.Is(err, ErrVarType) {
		t.Errorf("expected ErrVarType, got %v", err)
	}
}

func TestSetIntValueWithFloatUpgrades(t *testing.T) {
	v := NewVars()
	v.Declare("score", Value{Kind: KindInt})

	if err := v.Set("score", Value{Kind: KindFloat, Float: 2.5}); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, _ := v.Get("score")
	if val.Kind != KindFloat || val.Float != 2.5 {
		t.Errorf("expected the float to replace the int, got %+v", val)
	}

	// The upgrade is one-way.
	if err := v.Set("score", Value{Kind: KindInt, Int: 3}); !errors.Is(err, ErrVarType) {
		t.Errorf("expected ErrVarType going back to int, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	v := NewVars()
	v.Declare("temp", Value{Kind: KindString})

	if err := v.Delete("temp"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := v.Get("temp"); !errors.Is(err, ErrVarUnknown) {
		t.Errorf("expected the variable gone, got %v", err)
	}

	// The name can be declared again once deleted.
	if err := v.Declare("temp", Value{Kind: KindInt}); err != nil {
		t.Errorf("redeclare after delete: %v", err)
	}
}

func TestNames(t *testing.T) {
	v := NewVars()
	v.Declare("one", Value{Kind: KindInt})
	v.Declare("two", Value{Kind: KindInt})

	names := v.Names()
	if len(names) != 2 {
		t.Errorf("expected two names, got %v", names)
	}
}

func TestKindString(t *testing.T) {
	if KindBool.String() != "boolean" || KindString.String() != "string" {
		t.Error("unexpected kind names")
	}
	if KindInt.String() != "int" || KindFloat.String() != "float" {
		t.Error("unexpected kind names")
	}
	if Kind(9).String() != "unknown" {
		t.Errorf("unexpected name %q", Kind(9).String())
	}
}
