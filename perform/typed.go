package perform

import "fmt"

// As asserts a resumed value to the type the continuation expects.
// Returns a zero value and error on mismatch.
func As[T any](value any) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("resumed value has unexpected type: %T", value)
	}
	return v, nil
}

// MustAs is the panic-on-failure variant of As. Use when the performer
// contract guarantees the type and a mismatch should be fatal.
func MustAs[T any](value any) T {
	v, err := As[T](value)
	if err != nil {
		panic(err)
	}
	return v
}
