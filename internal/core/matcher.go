package core

import (
	"reflect"
)

// Clone returns a deep copy of val, for recording arguments whose referents may change after the call.
//
// Pointers, slices, maps, arrays, interfaces and exported struct fields are copied recursively.
// Unexported struct fields, funcs and channels are copied shallowly. Shared and cyclic pointers
// keep their shape in the copy.
func Clone[T any](val T) T {
	src := reflect.ValueOf(&val).Elem()
	dst := reflect.New(src.Type()).Elem()

	cloneValue(dst, src, make(map[visitKey]reflect.Value))

	//nolint:forcetypeassert // dst was created from T
	return *(dst.Addr().Interface().(*T))
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// argsEqual reports whether two recorded argument tuples are equal.
// Uses reflect.DeepEqual so tuples holding slices, maps or pointers compare by value.
func argsEqual(actual, expected any) bool {
	return reflect.DeepEqual(actual, expected)
}

//nolint:cyclop,exhaustive // one case per reference kind, everything else is copied by assignment
func cloneValue(dst, src reflect.Value, seen map[visitKey]reflect.Value) {
	switch src.Kind() {
	case reflect.Pointer:
		if src.IsNil() {
			return
		}

		key := visitKey{ptr: src.Pointer(), typ: src.Type()}
		if copied, ok := seen[key]; ok {
			dst.Set(copied)

			return
		}

		copied := reflect.New(src.Type().Elem())
		seen[key] = copied
		cloneValue(copied.Elem(), src.Elem(), seen)
		dst.Set(copied)
	case reflect.Slice:
		if src.IsNil() {
			return
		}

		copied := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := range src.Len() {
			cloneValue(copied.Index(i), src.Index(i), seen)
		}

		dst.Set(copied)
	case reflect.Map:
		if src.IsNil() {
			return
		}

		copied := reflect.MakeMapWithSize(src.Type(), src.Len())

		iter := src.MapRange()
		for iter.Next() {
			key := reflect.New(src.Type().Key()).Elem()
			cloneValue(key, iter.Key(), seen)

			val := reflect.New(src.Type().Elem()).Elem()
			cloneValue(val, iter.Value(), seen)

			copied.SetMapIndex(key, val)
		}

		dst.Set(copied)
	case reflect.Array:
		for i := range src.Len() {
			cloneValue(dst.Index(i), src.Index(i), seen)
		}
	case reflect.Struct:
		dst.Set(src)

		for i := range src.NumField() {
			if !src.Type().Field(i).IsExported() {
				continue
			}

			cloneValue(dst.Field(i), src.Field(i), seen)
		}
	case reflect.Interface:
		if src.IsNil() {
			return
		}

		inner := src.Elem()
		copied := reflect.New(inner.Type()).Elem()
		cloneValue(copied, inner, seen)
		dst.Set(copied)
	default:
		dst.Set(src)
	}
}
