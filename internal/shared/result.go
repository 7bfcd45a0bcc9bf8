package shared

import "encoding/json"

// Result is the envelope returned by every public service method. Exactly one
// of Data (Success) or Error holds.
type Result[T any] struct {
	Success bool
	Data    T
	Error   *ServiceError
}

// OK wraps data in a successful Result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps err in a failed Result. A nil err becomes INTERNAL_ERROR.
func Fail[T any](err *ServiceError) Result[T] {
	if err == nil {
		err = Internal(nil)
	}
	return Result[T]{Error: err}
}

// Err returns nil for a successful Result and the ServiceError otherwise.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return r.Error
}

// Unwrap splits the Result into Go's value/error pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.Success {
		return r.Data, nil
	}
	var zero T
	return zero, r.Error
}

// Code returns the error code, or "" on success.
func (r Result[T]) Code() ErrorCode {
	if r.Success || r.Error == nil {
		return ""
	}
	return r.Error.Code
}

type successEnvelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type failureEnvelope struct {
	Success bool          `json:"success"`
	Error   *ServiceError `json:"error"`
}

// MarshalJSON emits {success,data} or {success,error}, never both.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(successEnvelope[T]{Success: true, Data: r.Data})
	}
	return json.Marshal(failureEnvelope{Success: false, Error: r.Error})
}
