package history

import "reflect"

// Identical is the default "no change" check between the present state and
// the state a reducer returned.
//
// Comparable values are compared with ==. Maps, pointers, channels and funcs
// are identical only when they are the same reference; slices when they share
// backing array, length and capacity. Interfaces compare their dynamic values
// by the same rules. Other values that cannot be compared (structs holding
// slices, for example) are never identical; supply Config.Equal for those.
func Identical[S any](a, b S) bool {
	return identical(reflect.ValueOf(any(a)), reflect.ValueOf(any(b)))
}

func identical(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return identical(a.Elem(), b.Elem())
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Pointer() == b.Pointer() && a.Len() == b.Len() && a.Cap() == b.Cap()
	}

	if a.Comparable() && b.Comparable() {
		return a.Equal(b)
	}
	return false
}
