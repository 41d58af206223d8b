package authorizer

import (
	"math"
	"reflect"
)

type outcomeKind int

const (
	outcomeAuthRequired outcomeKind = iota
	outcomeSuccess
	outcomeFailed
)

// Outcome is what a wrapped request reports: a value, a request for fresh
// authorization, or a failure. The zero Outcome reports nothing and counts as
// AuthRequired, like a falsy result.
type Outcome[T any] struct {
	kind  outcomeKind
	value T
	err   error
}

// Success reports a result to hand back to the caller.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{kind: outcomeSuccess, value: value}
}

// AuthRequired reports that the request was refused for lack of authorization.
// The provider acquires authorization and runs the request again.
func AuthRequired[T any]() Outcome[T] {
	return Outcome[T]{kind: outcomeAuthRequired}
}

// Failed reports a failure that fresh authorization would not fix. A nil err
// is replaced by ErrRequestFailed.
func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrRequestFailed
	}
	return Outcome[T]{kind: outcomeFailed, err: err}
}

// Settle maps a conventional (value, error) pair onto an Outcome:
//
//   - a non-nil err is a failure
//   - a falsy value is AuthRequired
//   - anything else is a success
//
// Falsy means nil (pointer, map, slice, func, chan, interface), false, zero
// numbers, NaN and the empty string. Empty but non-nil slices and maps, arrays
// and structs are never falsy. Requests whose legitimate results can be falsy
// should build their Outcome explicitly instead.
func Settle[T any](value T, err error) Outcome[T] {
	if err != nil {
		return Failed[T](err)
	}
	if isFalsy(reflect.ValueOf(&value).Elem()) {
		return AuthRequired[T]()
	}
	return Success(value)
}

// IsSuccess reports whether the outcome carries a value.
func (o Outcome[T]) IsSuccess() bool { return o.kind == outcomeSuccess }

// IsAuthRequired reports whether the request asked for fresh authorization.
func (o Outcome[T]) IsAuthRequired() bool { return o.kind == outcomeAuthRequired }

// Err returns the failure, or nil.
func (o Outcome[T]) Err() error { return o.err }

// Value returns the result of a successful outcome, or the zero value.
func (o Outcome[T]) Value() T { return o.value }

func isFalsy(v reflect.Value) bool {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}
