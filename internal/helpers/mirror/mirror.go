package mirror

import "reflect"

// Alloc returns a pointer to a new zeroed value of v's type,
// dereferencing one level of pointer first. Alloc(&T{}) and Alloc(T{})
// both yield a usable *T.
func Alloc(v any) any {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return nil
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return reflect.New(typ).Interface()
}

// Fresh returns a pointer to a new zeroed instance of T.
// If T is a pointer type, the pointed-to value is allocated and the
// result has type T. If T is a value type, the result has type *T.
func Fresh[T any]() any {
	var zero T
	return Alloc(zero)
}
