package cpu

import (
	"errors"
	"fmt"
)

// ErrStackFault is matched by every stack overflow or underflow error.
var ErrStackFault = errors.New("stack fault")

// StackFaultError describes a CALL with a full stack or a RET with an empty one.
// PC is the address of the faulting instruction.
type StackFaultError struct {
	PC       uint16
	Opcode   uint16
	Overflow bool
}

func (e *StackFaultError) Error() string {
	kind := "underflow"
	if e.Overflow {
		kind = "overflow"
	}
	return fmt.Sprintf("stack %s at $%03X (opcode %04X)", kind, e.PC, e.Opcode)
}

func (e *StackFaultError) Unwrap() error {
	return ErrStackFault
}
