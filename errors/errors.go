package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which lifecycle step the error occurred in
type Phase string

const (
	PhaseResolve   Phase = "resolve"   // locating the loaded library on disk
	PhaseLoad      Phase = "load"      // dynamic loading / temp copy provisioning
	PhaseInit      Phase = "init"      // native initialization
	PhaseCall      Phase = "call"      // per-call marshaling and native status
	PhaseTerminate Phase = "terminate" // teardown and resource release
)

// Kind categorizes the error
type Kind string

const (
	KindPathResolution Kind = "path_resolution"
	KindLoadFailed     Kind = "load_failed"
	KindInitFailed     Kind = "init_failed"
	KindNativeStatus   Kind = "native_status"
	KindInvalidInput   Kind = "invalid_input"
	KindNotInitialized Kind = "not_initialized"
	KindNilPointer     Kind = "nil_pointer"
	KindInvalidEnum    Kind = "invalid_enum"
	KindFilesystem     Kind = "filesystem"
)

// Error is the structured error type used throughout the binding
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Symbol  string // native function name, if the error is tied to one
	Library string // library path or name involved
	Detail  string
	Status  int64 // raw native status code, when one was returned
	// HasStatus distinguishes a real zero status from an absent one.
	HasStatus bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Symbol != "" {
		b.WriteString(" @")
		b.WriteString(e.Symbol)
	}

	if e.Library != "" {
		b.WriteString(" (")
		b.WriteString(e.Library)
		b.WriteByte(')')
	}

	if e.HasStatus {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}

	if e.Detail != "" {
		if e.HasStatus {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Symbol sets the native function name
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Library sets the library path or name
func (b *Builder) Library(path string) *Builder {
	b.err.Library = path
	return b
}

// Status sets the raw native status code
func (b *Builder) Status(status int64) *Builder {
	b.err.Status = status
	b.err.HasStatus = true
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// PathResolution creates a library path resolution failure
func PathResolution(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindPathResolution,
		Detail: detail,
		Cause:  cause,
	}
}

// LoadFailed creates a dynamic loading failure for the named library
func LoadFailed(library string, cause error) *Error {
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindLoadFailed,
		Library: library,
		Cause:   cause,
	}
}

// InitFailed creates a native initialization failure
func InitFailed(library string, status int64) *Error {
	return &Error{
		Phase:     PhaseInit,
		Kind:      KindInitFailed,
		Library:   library,
		Symbol:    "espeak_Initialize",
		Status:    status,
		HasStatus: true,
	}
}

// NativeStatus creates an error from a nonzero native status code
func NativeStatus(phase Phase, symbol string, status int64) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindNativeStatus,
		Symbol:    symbol,
		Status:    status,
		HasStatus: true,
	}
}

// InvalidInput creates an argument validation error
func InvalidInput(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotInitialized creates an error for a call on a closed or never-opened instance
func NotInitialized(what string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNotInitialized,
		Detail: what + " is not initialized or already closed",
	}
}

// NilPointer creates an error for an unexpected null from the native side
func NilPointer(symbol string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNilPointer,
		Symbol: symbol,
		Detail: "native call returned a null pointer",
	}
}

// InvalidEnum creates an error for an out-of-range mode flag
func InvalidEnum(what string, value int64) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindInvalidEnum,
		Detail: fmt.Sprintf("unknown %s value %d", what, value),
	}
}

// Filesystem creates an error for temp-directory or copy failures
func Filesystem(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFilesystem,
		Detail: detail,
		Cause:  cause,
	}
}
