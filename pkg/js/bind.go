package js

import (
	"reflect"

	"github.com/dop251/goja"
)

func checkBindable(name string, value any) error {
	if _, ok := value.(goja.Value); ok {
		return nil
	}
	if t := unbindable(reflect.ValueOf(value), make(map[uintptr]bool)); t != nil {
		return &BindingError{Name: name, Type: t}
	}
	return nil
}

// Returns the first type found in v that has no JavaScript representation, or
// nil if there is none.
func unbindable(v reflect.Value, seen map[uintptr]bool) reflect.Type {
	switch v.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Chan, reflect.Complex64, reflect.Complex128,
		reflect.UnsafePointer, reflect.Uintptr:
		return v.Type()
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return unbindable(v.Elem(), seen)
	case reflect.Ptr:
		if v.IsNil() || seen[v.Pointer()] {
			return nil
		}
		seen[v.Pointer()] = true
		return unbindable(v.Elem(), seen)
	case reflect.Slice:
		if v.IsNil() || seen[v.Pointer()] {
			return nil
		}
		seen[v.Pointer()] = true
		return unbindableElems(v, seen)
	case reflect.Array:
		return unbindableElems(v, seen)
	case reflect.Map:
		if !bindableKey(v.Type().Key()) {
			return v.Type()
		}
		if v.IsNil() || seen[v.Pointer()] {
			return nil
		}
		seen[v.Pointer()] = true
		iter := v.MapRange()
		for iter.Next() {
			if t := unbindable(iter.Value(), seen); t != nil {
				return t
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if t := unbindable(v.Field(i), seen); t != nil {
				return t
			}
		}
	}
	return nil
}

func unbindableElems(v reflect.Value, seen map[uintptr]bool) reflect.Type {
	for i := 0; i < v.Len(); i++ {
		if t := unbindable(v.Index(i), seen); t != nil {
			return t
		}
	}
	return nil
}

func bindableKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
