package js

import (
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dop251/goja"
)

// Circular stands in for an array or object that contains itself, at the
// point where ToHost would convert it again.
const Circular = "[Circular]"

// ToHost converts a JavaScript value to a Go value:
//
//   - undefined and null become nil.
//
//   - Booleans and strings become bool and string. Numbers become int64 when
//     the runtime holds them as integers, and float64 otherwise.
//
//   - Arrays become []any and other objects with no internal class, including
//     class instances, become map[string]any of their own enumerable
//     properties. Elements are converted recursively; a reference back to an
//     array or object still being converted becomes Circular.
//
//   - Dates become time.Time, and values that were bound from Go become the
//     original Go value.
//
//   - Errors become their string form, like "TypeError: x is not a function".
//
//   - Anything else, like functions, becomes its JSON text, or its string form
//     when JSON has no representation for it.
func ToHost(rt *goja.Runtime, v goja.Value) any {
	cv := converter{rt, make(map[any]bool)}
	return cv.toHost(v)
}

type converter struct {
	rt *goja.Runtime
	// Arrays and objects on the current path, keyed by *goja.Object and, for
	// containers bound from Go, by the address of their data.
	active map[any]bool
}

func (cv converter) toHost(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	switch obj.ClassName() {
	case "Array":
		exported := obj.Export()
		if _, native := exported.([]any); !native {
			return exported
		}
		return cv.nested(obj, exported, func() any {
			list := make([]any, obj.Get("length").ToInteger())
			for i := range list {
				list[i] = cv.toHost(obj.Get(strconv.Itoa(i)))
			}
			return list
		})
	case "Object":
		exported := obj.Export()
		if _, native := exported.(map[string]any); !native {
			return exported
		}
		return cv.nested(obj, exported, func() any {
			m := make(map[string]any)
			for _, key := range obj.Keys() {
				m[key] = cv.toHost(obj.Get(key))
			}
			return m
		})
	case "Date":
		return obj.Export()
	case "Error":
		return safeString(obj)
	}
	if s, ok := stringify(cv.rt, obj); ok {
		return s
	}
	return safeString(obj)
}

// Calls convert with obj marked as active, or returns Circular if it already
// is. Go maps and slices get a new wrapper object on every access, so they
// are also tracked by the address of exported.
func (cv converter) nested(obj *goja.Object, exported any, convert func() any) any {
	addr := dataAddr(exported)
	if cv.active[obj] || (addr != 0 && cv.active[addr]) {
		return Circular
	}
	cv.active[obj] = true
	if addr != 0 {
		cv.active[addr] = true
	}
	defer func() {
		delete(cv.active, obj)
		delete(cv.active, addr)
		// exported must outlive the path so that its address is not reused.
		runtime.KeepAlive(exported)
	}()
	return convert()
}

func dataAddr(v any) uintptr {
	rv := reflect.ValueOf(v)
	if rv.Len() == 0 {
		return 0
	}
	return rv.Pointer()
}

// ToJSON returns the JSON text of a JavaScript value, or "undefined" if JSON
// has no representation for it.
func ToJSON(rt *goja.Runtime, v goja.Value) string {
	if s, ok := stringify(rt, v); ok {
		return s
	}
	return "undefined"
}

func stringify(rt *goja.Runtime, v goja.Value) (s string, ok bool) {
	jsonValue := rt.Get("JSON")
	if jsonValue == nil {
		return "", false
	}
	jsonObj, isObj := jsonValue.(*goja.Object)
	if !isObj {
		return "", false
	}
	fn, isFn := goja.AssertFunction(jsonObj.Get("stringify"))
	if !isFn {
		return "", false
	}
	res, err := fn(jsonObj, v)
	if err != nil || res == nil || goja.IsUndefined(res) {
		return "", false
	}
	return res.String(), true
}

// Converts a value to a string without letting a throwing toString escape.
func safeString(v goja.Value) (s string) {
	if v == nil {
		return "undefined"
	}
	defer func() {
		if r := recover(); r != nil {
			s = "[object]"
		}
	}()
	return v.String()
}

// Maps Go struct fields and methods to JavaScript property names: the json
// tag name if there is one, otherwise the Go name with the first letter in
// lower case.
type fieldNameMapper struct{}

func (fieldNameMapper) FieldName(_ reflect.Type, f reflect.StructField) string {
	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch tag {
	case "-":
		return ""
	case "":
		return uncapitalize(f.Name)
	}
	return tag
}

func (fieldNameMapper) MethodName(_ reflect.Type, m reflect.Method) string {
	return uncapitalize(m.Name)
}

func uncapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
