package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

// Op identifies one of the base instructions.
type Op uint8

const (
	OpInvalid Op = iota
	OpSYS
	OpCLS
	OpRET
	OpJP
	OpCALL
	OpSEImm
	OpSNEImm
	OpSEReg
	OpLDImm
	OpADDImm
	OpLDReg
	OpOR
	OpAND
	OpXOR
	OpADDReg
	OpSUB
	OpSHR
	OpSUBN
	OpSHL
	OpSNEReg
	OpLDI
	OpJPV0
	OpRND
	OpDRW
	OpSKP
	OpSKNP
	OpLDVxDT
	OpLDVxK
	OpLDDTVx
	OpLDSTVx
	OpADDI
	OpLDF
	OpLDB
	OpLDIVx
	OpLDVxI
)

var opNames = [...]string{
	OpInvalid: "INVALID",
	OpSYS:     "SYS",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

// Mnemonic returns the assembler mnemonic for the op, without operands.
func (o Op) Mnemonic() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpInvalid]
}

// Instruction is a decoded opcode. Only the operand fields relevant to Op are meaningful,
// but all of them are always extracted.
type Instruction struct {
	Op     Op
	Opcode uint16
	X      uint8
	Y      uint8
	N      uint8
	NN     uint8
	NNN    uint16
}

// Decode maps any 16 bit value to an instruction. Values that don't encode
// a known instruction decode to OpInvalid.
func Decode(opcode uint16) Instruction {
	inst := Instruction{
		Opcode: opcode,
		X:      bit.Nibble(opcode, 2),
		Y:      bit.Nibble(opcode, 1),
		N:      bit.Nibble(opcode, 0),
		NN:     bit.Low(opcode),
		NNN:    bit.Address(opcode),
	}
	inst.Op = decodeOp(inst)
	return inst
}

func decodeOp(inst Instruction) Op {
	switch bit.Nibble(inst.Opcode, 3) {
	case 0x0:
		switch inst.Opcode {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		default:
			return OpSYS
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEImm
	case 0x4:
		return OpSNEImm
	case 0x5:
		if inst.N == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDImm
	case 0x7:
		return OpADDImm
	case 0x8:
		switch inst.N {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		if inst.N == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch inst.NN {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		switch inst.NN {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDIVx
		case 0x65:
			return OpLDVxI
		}
	}
	return OpInvalid
}

// String formats the instruction in the conventional assembler syntax, e.g. "LD V0, $05".
func (i Instruction) String() string {
	m := i.Op.Mnemonic()
	switch i.Op {
	case OpCLS, OpRET:
		return m
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("%s $%03X", m, i.NNN)
	case OpLDI:
		return fmt.Sprintf("%s I, $%03X", m, i.NNN)
	case OpJPV0:
		return fmt.Sprintf("%s V0, $%03X", m, i.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("%s V%X, $%02X", m, i.X, i.NN)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("%s V%X, V%X", m, i.X, i.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", m, i.X)
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %d", m, i.X, i.Y, i.N)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", m, i.X)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", m, i.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", m, i.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", m, i.X)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", m, i.X)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", m, i.X)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", m, i.X)
	case OpLDIVx:
		return fmt.Sprintf("%s [I], V%X", m, i.X)
	case OpLDVxI:
		return fmt.Sprintf("%s V%X, [I]", m, i.X)
	default:
		return fmt.Sprintf("DW $%04X", i.Opcode)
	}
}
