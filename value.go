// value.go — runtime value model.
//
// A Value is a small tagged struct: the tag selects the dynamic type and Data
// holds the Go representation (int64, float64, string, []Value, map, or a
// *CaseResult). Constructors below are the only sanctioned way to build
// values; the zero Value is nil.
package bcc

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueTag enumerates the dynamic types a Value can take.
type ValueTag int

const (
	VTNil ValueTag = iota
	VTBool
	VTInt
	VTDouble
	VTString
	VTList
	VTDict
	VTTuple
	VTCaseResult
)

// Value is a dynamically-typed runtime value.
type Value struct {
	Tag  ValueTag
	Data any
}

// CaseResult wraps the value selected by the case builtin. The wrapper is a
// distinct runtime type; the inner value is reached via the `.result`
// property.
type CaseResult struct {
	Result Value
}

// Nil is the singleton nil value.
var Nil = Value{Tag: VTNil}

// Bool builds a boolean value.
func Bool(b bool) Value { return Value{Tag: VTBool, Data: b} }

// Int builds an integer value.
func Int(i int64) Value { return Value{Tag: VTInt, Data: i} }

// Double builds a double value.
func Double(f float64) Value { return Value{Tag: VTDouble, Data: f} }

// Str builds a string value.
func Str(s string) Value { return Value{Tag: VTString, Data: s} }

// List builds a list value around the given backing slice.
func List(elems []Value) Value { return Value{Tag: VTList, Data: elems} }

// Dict builds a dictionary value around the given backing map.
func Dict(entries map[string]Value) Value { return Value{Tag: VTDict, Data: entries} }

// Tuple builds a tuple value around the given backing slice.
func Tuple(elems []Value) Value { return Value{Tag: VTTuple, Data: elems} }

// AsBool returns the underlying bool; only valid for VTBool.
func (v Value) AsBool() bool { return v.Data.(bool) }

// AsInt returns the underlying int64; only valid for VTInt.
func (v Value) AsInt() int64 { return v.Data.(int64) }

// AsDouble returns the underlying float64; only valid for VTDouble.
func (v Value) AsDouble() float64 { return v.Data.(float64) }

// AsString returns the underlying string; only valid for VTString.
func (v Value) AsString() string { return v.Data.(string) }

// AsSlice returns the backing slice of a list or tuple.
func (v Value) AsSlice() []Value { return v.Data.([]Value) }

// AsDict returns the backing map of a dictionary.
func (v Value) AsDict() map[string]Value { return v.Data.(map[string]Value) }

// AsCaseResult returns the case-result wrapper; only valid for VTCaseResult.
func (v Value) AsCaseResult() *CaseResult { return v.Data.(*CaseResult) }

// IsTruthy reports the truthiness used by conditionals and logical operators:
// nil, false, numeric zero, and empty containers are falsy; a case result
// takes the truthiness of its wrapped value.
func (v Value) IsTruthy() bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.AsBool()
	case VTInt:
		return v.AsInt() != 0
	case VTDouble:
		return v.AsDouble() != 0
	case VTString:
		return len(v.AsString()) > 0
	case VTList, VTTuple:
		return len(v.AsSlice()) > 0
	case VTDict:
		return len(v.AsDict()) > 0
	case VTCaseResult:
		return v.AsCaseResult().Result.IsTruthy()
	default:
		return true
	}
}

// TypeName returns the user-visible type name, as reported by type().
func (v Value) TypeName() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return "bool"
	case VTInt:
		return "int"
	case VTDouble:
		return "double"
	case VTString:
		return "string"
	case VTList:
		return "list"
	case VTDict:
		return "dict"
	case VTTuple:
		return "tuple"
	case VTCaseResult:
		return "case_result"
	default:
		return "unknown"
	}
}

// Format renders the value for display. Doubles with no fractional part keep
// one decimal digit so they stay visually distinct from integers; strings are
// rendered raw everywhere, only dictionary keys are quoted.
func (v Value) Format() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case VTInt:
		return strconv.FormatInt(v.AsInt(), 10)
	case VTDouble:
		return formatDouble(v.AsDouble())
	case VTString:
		return v.AsString()
	case VTList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.AsSlice() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.Format())
		}
		sb.WriteByte(']')
		return sb.String()
	case VTDict:
		entries := v.AsDict()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			sb.WriteString(entries[k].Format())
		}
		sb.WriteByte('}')
		return sb.String()
	case VTTuple:
		elems := v.AsSlice()
		var sb strings.Builder
		sb.WriteByte('(')
		for i, e := range elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.Format())
		}
		if len(elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
		return sb.String()
	case VTCaseResult:
		return fmt.Sprintf("<case_result: %s>", v.AsCaseResult().Result.Format())
	default:
		return "<unknown>"
	}
}

func formatDouble(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Clone deep-copies the value. Containers copy element by element so a stored
// value never aliases one held by the program.
func (v Value) Clone() Value {
	switch v.Tag {
	case VTList, VTTuple:
		src := v.AsSlice()
		dst := make([]Value, len(src))
		for i, e := range src {
			dst[i] = e.Clone()
		}
		return Value{Tag: v.Tag, Data: dst}
	case VTDict:
		src := v.AsDict()
		dst := make(map[string]Value, len(src))
		for k, e := range src {
			dst[k] = e.Clone()
		}
		return Value{Tag: VTDict, Data: dst}
	case VTCaseResult:
		return Value{Tag: VTCaseResult, Data: &CaseResult{Result: v.AsCaseResult().Result.Clone()}}
	default:
		return v
	}
}

// ValuesEqual implements the == / != semantics. Int and double compare by
// numeric value. Lists compare elementwise with lists, tuples with tuples,
// never across the two. Dictionaries are never equal to anything, themselves
// included. Case results never compare equal either; unwrap through the
// result property first.
func ValuesEqual(a, b Value) bool {
	if a.Tag == VTCaseResult || b.Tag == VTCaseResult {
		return false
	}

	switch {
	case a.Tag == VTInt && b.Tag == VTDouble:
		return float64(a.AsInt()) == b.AsDouble()
	case a.Tag == VTDouble && b.Tag == VTInt:
		return a.AsDouble() == float64(b.AsInt())
	}

	if a.Tag != b.Tag {
		return false
	}

	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.AsBool() == b.AsBool()
	case VTInt:
		return a.AsInt() == b.AsInt()
	case VTDouble:
		return a.AsDouble() == b.AsDouble()
	case VTString:
		return a.AsString() == b.AsString()
	case VTList, VTTuple:
		as, bs := a.AsSlice(), b.AsSlice()
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !ValuesEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	case VTDict:
		return false
	default:
		return false
	}
}
