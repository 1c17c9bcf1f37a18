// Package form keeps the in-memory state of the sign-up form: values, the
// per-field status machine (untouched, valid, invalid) and the visible error
// messages. It wires itself as both the value source and the error reporter of
// a validation.Engine, so input events and submissions update state in place.
package form
