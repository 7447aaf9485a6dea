package graph

import "testing"

func TestPromoteBool(t *testing.T) {
	cases := map[string]bool{"True": true, "False": false}
	for in, want := range cases {
		s := Promote(in)
		if s.Kind != KindBool || s.Bool != want {
			t.Fatalf("Promote(%q) = %#v, want bool %v", in, s, want)
		}
	}
}

func TestPromoteInt(t *testing.T) {
	s := Promote("42")
	if s.Kind != KindInt || s.Int != 42 {
		t.Fatalf("Promote(\"42\") = %#v, want int 42", s)
	}
}

func TestPromoteFloat(t *testing.T) {
	s := Promote("3.14")
	if s.Kind != KindFloat || s.Flt != 3.14 {
		t.Fatalf("Promote(\"3.14\") = %#v, want float 3.14", s)
	}
}

func TestPromoteString(t *testing.T) {
	s := Promote("hello world")
	if s.Kind != KindString || s.Str != "hello world" {
		t.Fatalf("Promote(\"hello world\") = %#v, want string", s)
	}
}

func TestPromoteOrderPrefersBoolOverInt(t *testing.T) {
	// "True"/"False" are not valid ParseInt input so this is really
	// testing that the literal check runs first, not a real ambiguity.
	s := Promote("True")
	if s.Kind != KindBool {
		t.Fatalf("Promote(\"True\") should be bool, got %#v", s)
	}
}

func TestStringifyRoundTrip(t *testing.T) {
	cases := []Scalar{
		String("abc"),
		Int(-7),
		Float(2.5),
		Bool(true),
		Bool(false),
	}
	for _, c := range cases {
		str := c.Stringify()
		got := Promote(str)
		if !got.Equal(c) {
			t.Fatalf("round trip mismatch: %#v -> %q -> %#v", c, str, got)
		}
	}
}

func TestScalarEqual(t *testing.T) {
	if !Int(5).Equal(Int(5)) {
		t.Fatal("Int(5) should equal Int(5)")
	}
	if Int(5).Equal(Float(5)) {
		t.Fatal("Int(5) should not equal Float(5) despite numeric equality")
	}
}

func TestScalarAsFloat64(t *testing.T) {
	if f, ok := Int(3).AsFloat64(); !ok || f != 3 {
		t.Fatalf("Int(3).AsFloat64() = %v, %v", f, ok)
	}
	if f, ok := Float(3.5).AsFloat64(); !ok || f != 3.5 {
		t.Fatalf("Float(3.5).AsFloat64() = %v, %v", f, ok)
	}
	if _, ok := String("x").AsFloat64(); ok {
		t.Fatal("String should not convert to float64")
	}
	if _, ok := Bool(true).AsFloat64(); ok {
		t.Fatal("Bool should not convert to float64")
	}
}
