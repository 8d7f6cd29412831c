package debug

import (
	"github.com/valerio/go-chip8/chip8/disasm"
)

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// CreateDisassembly decodes the snapshot into at most maxLines lines, centred on pc
// when pc falls inside the snapshot.
func CreateDisassembly(snapshot *MemorySnapshot, pc uint16, maxLines int) []DisasmLine {
	if snapshot == nil || maxLines <= 0 {
		return nil
	}

	end := int(snapshot.StartAddr) + len(snapshot.Bytes)
	pcInSnapshot := pc >= snapshot.StartAddr && int(pc) < end

	if !pcInSnapshot {
		lines := decodeFrom(snapshot, 0, maxLines-1, pc)
		// Add a special line indicating PC is outside snapshot
		return append(lines, DisasmLine{
			Address:     pc,
			Instruction: "[PC outside snapshot range]",
			IsCurrent:   true,
		})
	}

	// keep instruction alignment with pc, which may be odd after a jump
	pcOffset := int(pc - snapshot.StartAddr)
	startOffset := pcOffset - (maxLines/2)*disasm.InstructionLength
	for startOffset < 0 {
		startOffset += disasm.InstructionLength
	}

	lines := decodeFrom(snapshot, startOffset, maxLines, pc)

	// near the end of the snapshot, pull the window back to fill it
	if len(lines) < maxLines && startOffset > 0 {
		missing := maxLines - len(lines)
		startOffset -= missing * disasm.InstructionLength
		for startOffset < 0 {
			startOffset += disasm.InstructionLength
		}
		lines = decodeFrom(snapshot, startOffset, maxLines, pc)
	}

	return lines
}

func decodeFrom(snapshot *MemorySnapshot, offset, maxLines int, pc uint16) []DisasmLine {
	lines := make([]DisasmLine, 0, maxLines)
	for i := offset; i < len(snapshot.Bytes) && len(lines) < maxLines; {
		addr := snapshot.StartAddr + uint16(i)
		instruction, length := disasm.DisassembleBytes(snapshot.Bytes, i)
		lines = append(lines, DisasmLine{
			Address:     addr,
			Instruction: instruction,
			IsCurrent:   addr == pc,
		})
		i += length
	}
	return lines
}
