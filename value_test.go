// value_test.go
package bcc

import "testing"

func Test_Value_TypeNames(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Bool(true), "bool"},
		{Int(1), "int"},
		{Double(1.5), "double"},
		{Str("x"), "string"},
		{List(nil), "list"},
		{Dict(nil), "dict"},
		{Tuple(nil), "tuple"},
		{Value{Tag: VTCaseResult, Data: &CaseResult{Result: Int(1)}}, "case_result"},
	}
	for _, c := range cases {
		if got := c.v.TypeName(); got != c.want {
			t.Fatalf("TypeName(%v) = %q, want %q", c.v.Tag, got, c.want)
		}
	}
}

func Test_Value_Truthiness(t *testing.T) {
	falsy := []Value{
		Nil, Bool(false),
		Int(0), Double(0), Str(""),
		List(nil), Dict(nil), Tuple(nil),
		List([]Value{}), Dict(map[string]Value{}),
		{Tag: VTCaseResult, Data: &CaseResult{Result: Int(0)}},
	}
	for _, v := range falsy {
		if v.IsTruthy() {
			t.Fatalf("%s should be falsy", v.Format())
		}
	}
	truthy := []Value{
		Bool(true), Int(-1), Double(0.5), Str("x"),
		List([]Value{Nil}), Dict(map[string]Value{"k": Nil}), Tuple([]Value{Int(0)}),
		{Tag: VTCaseResult, Data: &CaseResult{Result: Str("hit")}},
	}
	for _, v := range truthy {
		if !v.IsTruthy() {
			t.Fatalf("%s should be truthy", v.Format())
		}
	}
}

func Test_Value_Format(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(-42), "-42"},
		{Double(3.0), "3.0"},
		{Double(3.14), "3.14"},
		{Str("raw text"), "raw text"},
		{List([]Value{Int(1), Str("a")}), "[1, a]"},
		{Dict(map[string]Value{"k": Int(1)}), `{"k": 1}`},
		{Tuple([]Value{Int(1), Int(2)}), "(1, 2)"},
		// One-element tuples keep the trailing comma.
		{Tuple([]Value{Int(1)}), "(1,)"},
		{Value{Tag: VTCaseResult, Data: &CaseResult{Result: Int(7)}}, "<case_result: 7>"},
	}
	for _, c := range cases {
		if got := c.v.Format(); got != c.want {
			t.Fatalf("Format = %q, want %q", got, c.want)
		}
	}
}

func Test_Value_Format_Nested_Strings_Raw(t *testing.T) {
	v := List([]Value{Str("a"), List([]Value{Str("b")})})
	if got := v.Format(); got != "[a, [b]]" {
		t.Fatalf("Format = %q", got)
	}
	// Only dictionary keys are quoted, values never are.
	d := Dict(map[string]Value{"k": Str("v")})
	if got := d.Format(); got != `{"k": v}` {
		t.Fatalf("Format = %q", got)
	}
}

func Test_Value_Equality_Numeric_Promotion(t *testing.T) {
	if !ValuesEqual(Int(1), Double(1.0)) {
		t.Fatalf("1 == 1.0 must hold")
	}
	if ValuesEqual(Int(1), Double(1.5)) {
		t.Fatalf("1 == 1.5 must not hold")
	}
}

func Test_Value_Equality_Containers(t *testing.T) {
	l1 := List([]Value{Int(1), Int(2)})
	l2 := List([]Value{Int(1), Int(2)})
	if !ValuesEqual(l1, l2) {
		t.Fatalf("equal lists must compare equal")
	}
	if ValuesEqual(l1, List([]Value{Int(1)})) {
		t.Fatalf("lists of different lengths must differ")
	}
	if ValuesEqual(l1, Tuple([]Value{Int(1), Int(2)})) {
		t.Fatalf("a list never equals a tuple")
	}
	if !ValuesEqual(Tuple([]Value{Int(1)}), Tuple([]Value{Double(1.0)})) {
		t.Fatalf("tuples compare elementwise with promotion")
	}
}

func Test_Value_Equality_Dict_Always_False(t *testing.T) {
	d := Dict(map[string]Value{"a": Int(1)})
	if ValuesEqual(d, d) {
		t.Fatalf("dict equality is defined as false, even for the same dict")
	}
}

func Test_Value_Equality_CaseResult_Never_Equal(t *testing.T) {
	cr := Value{Tag: VTCaseResult, Data: &CaseResult{Result: Int(5)}}
	if ValuesEqual(cr, Int(5)) {
		t.Fatalf("case_result does not compare equal to its inner value")
	}
	if ValuesEqual(Int(5), cr) {
		t.Fatalf("case_result on either side compares unequal")
	}
	if ValuesEqual(cr, cr) {
		t.Fatalf("case_result never compares equal, itself included")
	}
	if !ValuesEqual(cr.AsCaseResult().Result, Int(5)) {
		t.Fatalf("the result property exposes the comparable inner value")
	}
}

func Test_Value_Clone_Is_Deep(t *testing.T) {
	orig := List([]Value{List([]Value{Int(1)}), Str("s")})
	clone := orig.Clone()
	orig.AsSlice()[0].AsSlice()[0] = Int(99)
	if clone.AsSlice()[0].AsSlice()[0].AsInt() != 1 {
		t.Fatalf("clone shares nested storage with the original")
	}

	d := Dict(map[string]Value{"k": List([]Value{Int(1)})})
	dc := d.Clone()
	d.AsDict()["k"].AsSlice()[0] = Int(99)
	if dc.AsDict()["k"].AsSlice()[0].AsInt() != 1 {
		t.Fatalf("dict clone shares nested storage")
	}
}
