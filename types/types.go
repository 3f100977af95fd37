// Package types classifies runtime values into the lowercase tags used by
// the JavaScript typeof operator and Object.prototype.toString.
package types

import (
	"math/big"
	"reflect"
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/dop251/goja"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tags returned by Of.
const (
	Unknown   = ""
	Undefined = "undefined"
	Boolean   = "boolean"
	Number    = "number"
	BigInt    = "bigint"
	String    = "string"
	Symbol    = "symbol"
	Function  = "function"
	Object    = "object"
	Array     = "array"
	Date      = "date"
	Error     = "error"
	RegExp    = "regexp"
)

// object-like structural tags, keyed by the lowercased toString result.
var structural = map[string]string{
	"[object object]": Object,
	"[object array]":  Array,
	"[object date]":   Date,
	"[object error]":  Error,
	"[object regexp]": RegExp,
}

var (
	lower = cases.Lower(language.Und)

	typeTime     = reflect.TypeOf(time.Time{})
	typeDuration = reflect.TypeOf(time.Duration(0))
	typeError    = reflect.TypeOf((*error)(nil)).Elem()
)

// Of returns the tag of the value. Object-like values whose structural tag
// is not object, array, date, error or regexp return Unknown.
func Of(value any) string {
	tag, _ := Lookup(value)
	return tag
}

// Lookup returns the tag of the value and reports whether it is known.
func Lookup(value any) (string, bool) {
	if v, ok := value.(goja.Value); ok {
		return ofValue(v)
	}
	if kind := typeOf(value); kind != Object {
		return kind, true
	}
	tag, ok := structural[lower.String(TagOf(value))]
	return tag, ok
}

// TagOf returns the structural tag of the value in the form "[object Name]".
func TagOf(value any) string {
	if v, ok := value.(goja.Value); ok {
		return tagOfValue(v)
	}
	return "[object " + className(value) + "]"
}

// typeOf is the typeof operator for Go values.
func typeOf(value any) string {
	switch value.(type) {
	case nil:
		return Undefined
	case bool:
		return Boolean
	case string:
		return String
	case *big.Int:
		return BigInt
	case time.Duration:
		return Number
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.Bool:
		return Boolean
	case reflect.String:
		return String
	case reflect.Func:
		return Function
	}
	return Object
}

func className(value any) string {
	switch typeOf(value) {
	case Undefined:
		return "Undefined"
	case Boolean:
		return "Boolean"
	case Number:
		return "Number"
	case String:
		return "String"
	case BigInt:
		return "BigInt"
	case Function:
		return "Function"
	}

	switch value.(type) {
	case time.Time:
		return "Date"
	case *regexp.Regexp, *regexp2.Regexp:
		return "RegExp"
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer && reflect.ValueOf(value).IsNil() {
		return "Null"
	}
	if t.Implements(typeError) {
		return "Error"
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "Array"
	case reflect.Map, reflect.Struct:
		return "Object"
	case reflect.Pointer:
		elem := t.Elem()
		if elem == typeTime {
			return "Date"
		}
		if elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map {
			return "Object"
		}
		return "Pointer"
	case reflect.Chan:
		return "Chan"
	case reflect.Complex64, reflect.Complex128:
		return "Complex"
	case reflect.UnsafePointer:
		return "UnsafePointer"
	}
	return t.Name()
}

func ofValue(value goja.Value) (string, bool) {
	switch {
	case value == nil || goja.IsUndefined(value):
		return Undefined, true
	case goja.IsNull(value):
		return Unknown, false
	}
	switch v := value.(type) {
	case *goja.Symbol:
		return Symbol, true
	case *goja.Object:
		if _, ok := goja.AssertFunction(v); ok {
			return Function, true
		}
		tag, ok := structural[lower.String(tagOfValue(v))]
		return tag, ok
	}
	return Lookup(value.Export())
}

func tagOfValue(value goja.Value) string {
	switch {
	case value == nil || goja.IsUndefined(value):
		return "[object Undefined]"
	case goja.IsNull(value):
		return "[object Null]"
	}
	if obj, ok := value.(*goja.Object); ok {
		return "[object " + obj.ClassName() + "]"
	}
	return TagOf(value.Export())
}

// IsDuration reports whether the value is a time.Duration.
func IsDuration(value any) bool {
	return value != nil && reflect.TypeOf(value) == typeDuration
}
