package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is matched by every MemoryError.
	ErrOutOfBounds = errors.New("memory access out of bounds")

	// ErrIllegalInstruction is matched by every IllegalInstructionError.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrMaxInstructions is returned once the instruction budget set with
	// WithMaxInstructions is spent.
	ErrMaxInstructions = errors.New("max instructions reached")
)

// IllegalInstructionError reports a fetched word the decoder rejected.
type IllegalInstructionError struct {
	// PC is the address the word was fetched from.
	PC uint64

	// Word is the raw instruction word.
	Word uint32

	// Err is the decoder error, usually an *insts.DecodeError.
	Err error
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction at pc 0x%x: %v", e.PC, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *IllegalInstructionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIllegalInstruction.
func (e *IllegalInstructionError) Is(target error) bool {
	return target == ErrIllegalInstruction
}
