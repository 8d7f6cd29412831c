package cpu

import (
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
)

const flag = addr.FlagRegister

func (c *CPU) execute(inst Instruction) {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCLS:
		c.fb.Clear()
	case OpRET:
		address, ok := c.popStack()
		if !ok {
			c.stackFault(false)
			return
		}
		c.pc = address
	case OpJP:
		c.pc = inst.NNN
	case OpCALL:
		if !c.pushStack(c.pc) {
			c.stackFault(true)
			return
		}
		c.pc = inst.NNN
	case OpSEImm:
		c.skipIf(c.v[x] == inst.NN)
	case OpSNEImm:
		c.skipIf(c.v[x] != inst.NN)
	case OpSEReg:
		c.skipIf(c.v[x] == c.v[y])
	case OpLDImm:
		c.v[x] = inst.NN
	case OpADDImm:
		c.v[x] += inst.NN
	case OpLDReg:
		c.v[x] = c.v[y]
	case OpOR:
		c.v[x] |= c.v[y]
	case OpAND:
		c.v[x] &= c.v[y]
	case OpXOR:
		c.v[x] ^= c.v[y]
	case OpADDReg:
		result, carry := bit.CheckedAdd(c.v[x], c.v[y])
		c.setWithFlag(x, result, carry)
	case OpSUB:
		result, noBorrow := bit.CheckedSub(c.v[x], c.v[y])
		c.setWithFlag(x, result, noBorrow)
	case OpSUBN:
		result, noBorrow := bit.CheckedSub(c.v[y], c.v[x])
		c.setWithFlag(x, result, noBorrow)
	case OpSHR:
		c.setWithFlag(x, c.v[x]>>1, bit.IsSet(0, c.v[x]))
	case OpSHL:
		c.setWithFlag(x, c.v[x]<<1, bit.IsSet(7, c.v[x]))
	case OpSNEReg:
		c.skipIf(c.v[x] != c.v[y])
	case OpLDI:
		c.i = inst.NNN
	case OpJPV0:
		c.pc = (inst.NNN + uint16(c.v[0])) & addr.AddressMask
	case OpRND:
		c.v[x] = uint8(c.rng.UintN(256)) & inst.NN
	case OpDRW:
		c.draw(c.v[x], c.v[y], inst.N)
	case OpSKP:
		c.skipIf(c.keys.IsPressed(c.v[x]))
	case OpSKNP:
		c.skipIf(!c.keys.IsPressed(c.v[x]))
	case OpLDVxDT:
		c.v[x] = c.delayTimer
	case OpLDVxK:
		if key, ok := c.keys.FirstPressed(); ok {
			c.v[x] = key
		} else {
			// no key yet, run this instruction again on the next cycle
			c.pc = (c.pc - addr.InstructionSize) & addr.AddressMask
		}
	case OpLDDTVx:
		c.delayTimer = c.v[x]
	case OpLDSTVx:
		c.soundTimer = c.v[x]
	case OpADDI:
		c.i += uint16(c.v[x])
	case OpLDF:
		c.i = addr.FontStart + addr.GlyphSize*uint16(c.v[x]&0x0F)
	case OpLDB:
		hundreds, tens, ones := bit.BCD(c.v[x])
		c.bus.Write(c.indexed(0), hundreds)
		c.bus.Write(c.indexed(1), tens)
		c.bus.Write(c.indexed(2), ones)
	case OpLDIVx:
		for k := uint8(0); k <= x; k++ {
			c.bus.Write(c.indexed(uint16(k)), c.v[k])
		}
	case OpLDVxI:
		for k := uint8(0); k <= x; k++ {
			c.v[k] = c.bus.Read(c.indexed(uint16(k)))
		}
	case OpSYS, OpInvalid:
		// no-op
	}
}

// setWithFlag writes the result before the flag, so VF as destination ends up holding the flag.
func (c *CPU) setWithFlag(x, result uint8, set bool) {
	c.v[x] = result
	if set {
		c.v[flag] = 1
	} else {
		c.v[flag] = 0
	}
}

// indexed returns I+offset wrapped to the address space.
func (c *CPU) indexed(offset uint16) uint16 {
	return (c.i + offset) & addr.AddressMask
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc = (c.pc + addr.InstructionSize) & addr.AddressMask
	}
}

// draw XORs an n-row sprite read from I onto the frame buffer. The origin wraps
// around the display, pixels that fall past the right or bottom edge are clipped.
func (c *CPU) draw(vx, vy, n uint8) {
	width, height := c.fb.Width(), c.fb.Height()
	originX := uint(vx) % width
	originY := uint(vy) % height

	c.v[flag] = 0

	for row := uint(0); row < uint(n); row++ {
		py := originY + row
		if py >= height {
			break
		}

		sprite := c.bus.Read(c.indexed(uint16(row)))
		for col := uint(0); col < 8; col++ {
			px := originX + col
			if px >= width {
				break
			}
			if !bit.IsSet(uint8(7-col), sprite) {
				continue
			}
			if c.fb.Toggle(px, py) {
				c.v[flag] = 1
			}
		}
	}
}
