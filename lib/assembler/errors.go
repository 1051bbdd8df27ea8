package assembler

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message. Every error of this package is fatal: nothing is
// recovered locally, the process terminates with a descriptive message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCKmerLengthMismatch:
		errorCode = "KmerLengthMismatch"
	case RetCTableFull:
		errorCode = "TableFull"
	case RetCBufferExhausted:
		errorCode = "BufferExhausted"
	case RetCBrokenChain:
		errorCode = "BrokenChain"
	case RetCInternalError:
		errorCode = "InternalError"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("AssemblyError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new AssemblyError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess            RetCode = iota // 0: Run finished successfully.
	RetCKmerLengthMismatch                // 1: Input file k-mer length differs from the configured length.
	RetCTableFull                         // 2: Local open-addressing overflow; load factor misconfigured.
	RetCBufferExhausted                   // 3: Send pool exhausted; buffer factor misconfigured.
	RetCBrokenChain                       // 4: A successor named by a forward extension is absent from the input.
	RetCInternalError                     // 5: Protocol violation or transport failure.
)
