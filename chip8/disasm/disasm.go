package disasm

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
)

// Reader is the read side of the address space.
type Reader interface {
	Read(address uint16) uint8
}

// InstructionLength is the size of every instruction in bytes.
const InstructionLength = 2

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Opcode      uint16
	Instruction string
	Length      int
}

// DisassembleAt disassembles the instruction at the given program counter
func DisassembleAt(pc uint16, reader Reader) DisassemblyLine {
	opcode := bit.Combine(reader.Read(pc), reader.Read(pc+1))

	return DisassemblyLine{
		Address:     pc,
		Opcode:      opcode,
		Instruction: cpu.Decode(opcode).String(),
		Length:      InstructionLength,
	}
}

// DisassembleBytes disassembles the instruction starting at offset in data.
// A trailing odd byte is rendered as a data byte of length 1.
func DisassembleBytes(data []byte, offset int) (string, int) {
	if offset+1 >= len(data) {
		return fmt.Sprintf("DB $%02X", data[offset]), 1
	}
	opcode := bit.Combine(data[offset], data[offset+1])
	return cpu.Decode(opcode).String(), InstructionLength
}

// DisassembleRange disassembles multiple instructions starting from the given PC
func DisassembleRange(startPC uint16, count int, reader Reader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for i := 0; i < count && int(pc)+InstructionLength <= 0x1000; i++ {
		line := DisassembleAt(pc, reader)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}

	return lines
}

// DisassembleAround disassembles instructions around the given PC.
// Returns up to beforeCount instructions before it, the one at PC, and up to afterCount after it.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, reader Reader) []DisassemblyLine {
	before := beforeCount
	if maxBefore := int(currentPC) / InstructionLength; before > maxBefore {
		before = maxBefore
	}

	startPC := currentPC - uint16(before*InstructionLength)
	return DisassembleRange(startPC, before+1+afterCount, reader)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = "→"
	}

	return fmt.Sprintf("%s0x%03X: %04X  %s", prefix, line.Address, line.Opcode, line.Instruction)
}
