// Package errors provides structured error types for the espeak-runtime library.
//
// Errors are categorized by Phase (which lifecycle step failed) and Kind
// (error category). The Error type includes rich context: the native symbol
// involved, the library path, the raw native status code, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindNativeStatus).
//		Symbol("espeak_SetVoiceByName").
//		Status(-1).
//		Detail("voice %q not found", name).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LoadFailed(path, cause)
//	err := errors.NativeStatus(errors.PhaseCall, "espeak_Synth", status)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
