package sign

import (
	"errors"
	"fmt"
)

// ErrNoResult means every symbol set was either unavailable or failed on this
// image; the request has no best guess at all.
var ErrNoResult = errors.New("sign: no model produced a result")

// DecodeError wraps a failure to decode raw image bytes.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sign: cannot decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ShapeError reports a tensor that does not match a symbol set's input
// contract.
type ShapeError struct {
	Set  SymbolSet
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("sign: input for %q has %d values, want %d", e.Set, e.Got, e.Want)
}

// InferenceError wraps a runtime failure inside one model's inference call.
// It is scoped to a single symbol set and never fails the whole request.
type InferenceError struct {
	Set SymbolSet
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("sign: inference failed for %q: %v", e.Set, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// LoadError records why a symbol set's model could not be loaded at startup.
type LoadError struct {
	Set  SymbolSet
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("sign: loading model for %q from %s: %v", e.Set, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
