package BSet

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the category a Value is routed by. Iteration visits the kinds in this order.
type Kind byte

const (
	Int Kind = iota
	Float
	Text
	Object
	numKinds
)

var kindNames = [...]string{Int: "int", Float: "float", Text: "text", Object: "object"}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a member of a BSet: a 64-bit integer, a 64-bit float, a text, or an opaque object.
// Values of different kinds are never equal, so IntValue(1) and FloatValue(1) are distinct members.
type Value struct {
	kind Kind
	num  uint64 // int64 or float64 bits
	text string
	obj  any
}

func IntValue(i int64) Value {
	return Value{kind: Int, num: uint64(i)}
}

func FloatValue(f float64) Value {
	return Value{kind: Float, num: math.Float64bits(f)}
}

func TextValue(s string) Value {
	return Value{kind: Text, text: s}
}

// ObjectValue wraps v as opaque, compared with ==. v should be comparable to be stored.
func ObjectValue(v any) Value {
	return Value{kind: Object, obj: v}
}

// Of classifies v by its dynamic type:
// signed integers and uint8, uint16, uint32 are Int; float32 and float64 are Float; string is Text.
// Everything else, including uint, uint64 and uintptr whose range exceeds int64, is Object.
// A Value passes through unchanged.
func Of(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case int:
		return IntValue(int64(x))
	case int8:
		return IntValue(int64(x))
	case int16:
		return IntValue(int64(x))
	case int32:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case uint8:
		return IntValue(int64(x))
	case uint16:
		return IntValue(int64(x))
	case uint32:
		return IntValue(int64(x))
	case float32:
		return FloatValue(float64(x))
	case float64:
		return FloatValue(x)
	case string:
		return TextValue(x)
	}
	return ObjectValue(v)
}

func (v Value) Kind() Kind {
	return v.kind
}

// Int is the integer held by an Int value.
func (v Value) Int() int64 {
	return int64(v.num)
}

// Float is the float held by a Float value.
func (v Value) Float() float64 {
	return math.Float64frombits(v.num)
}

// Text is the string held by a Text value.
func (v Value) Text() string {
	return v.text
}

// Any unwraps v: an int64, float64, string, or the object.
func (v Value) Any() any {
	switch v.kind {
	case Int:
		return v.Int()
	case Float:
		return v.Float()
	case Text:
		return v.text
	}
	return v.obj
}

func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.Int(), 10)
	case Float:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case Text:
		return strconv.Quote(v.text)
	}
	return fmt.Sprintf("%v", v.obj)
}

// Ranger is anything yielding Values, such as a BSet or a Slice.
type Ranger interface {
	Range(func(Value) bool)
}

// Slice adapts plain values into a Ranger, classifying each with Of.
type Slice []any

func (s Slice) Range(f func(Value) bool) {
	for _, v := range s {
		if !f(Of(v)) {
			return
		}
	}
}
