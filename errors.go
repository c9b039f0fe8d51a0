package apreal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an engine failure the way the REPL needs to report it.
type Kind int

const (
	// KindInternal covers anything that isn't one of the named kinds below.
	KindInternal Kind = iota
	// KindSyntax is raised by the parser when input doesn't match the grammar.
	KindSyntax
	// KindArithmetic covers DivideByZero, PrecisionOverflow, negative Sqrt
	// operands, and out-of-domain Asin/Acos arguments.
	KindArithmetic
	// KindCancelled is raised when a cooperative cancellation token fires.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "Syntax"
	case KindArithmetic:
		return "Arithmetic"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Internal"
	}
}

// EngineError is the error type every engine-facing failure is reported as.
// It wraps a cause with github.com/pkg/errors, which records a stack trace
// on the cause (printed by %+v on Unwrap()); Error() prints only the kind
// and the cause's message.
type EngineError struct {
	Kind  Kind
	cause error
}

func (e *EngineError) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

func (e *EngineError) Unwrap() error { return e.cause }

// newErr builds a Kind-tagged EngineError, wrapping msg with a stack via pkg/errors.
func newErr(kind Kind, msg string) *EngineError {
	return &EngineError{Kind: kind, cause: errors.New(msg)}
}

func wrapErr(kind Kind, cause error, msg string) *EngineError {
	if cause == nil {
		return newErr(kind, msg)
	}
	return &EngineError{Kind: kind, cause: errors.Wrap(cause, msg)}
}

// Sentinel causes tested with errors.Is against the wrapped cause chain.
var (
	ErrPrecisionOverflow = errors.New("precision outside safe range")
	ErrDivideByZero      = errors.New("division by zero")
	ErrOverflow          = errors.New("argument out of domain")
	ErrCancelled         = errors.New("operation cancelled")
	ErrNegativeSqrt      = errors.New("square root of negative operand")
)

// NewSyntaxError builds a Syntax-kind EngineError, for use by the parser
// package, which lives outside apreal and has no access to newErr.
func NewSyntaxError(msg string) error {
	return newErr(KindSyntax, msg)
}

// IsKind reports whether err is an *EngineError of the given Kind.
func IsKind(err error, kind Kind) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}
