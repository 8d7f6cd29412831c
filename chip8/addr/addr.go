package addr

// memory map
const (
	// MemorySize is the size of the addressable memory, 4 KiB.
	MemorySize = 0x1000
	// AddressMask keeps an address inside the 12 bit address space.
	AddressMask uint16 = 0x0FFF

	// FontStart is where the built-in hexadecimal glyphs are stored.
	FontStart uint16 = 0x050
	// FontEnd is the last byte of the built-in glyphs.
	FontEnd uint16 = 0x09F
	// GlyphSize is the number of bytes (rows) in a single font glyph.
	GlyphSize = 5
	// GlyphCount is the number of built-in glyphs, one per hex digit.
	GlyphCount = 16

	// ProgramStart is where program images are loaded and execution begins.
	ProgramStart uint16 = 0x200
	// MaxProgramSize is the largest image that fits between ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - int(ProgramStart)
)

// machine geometry
const (
	RegisterCount = 16
	StackDepth    = 16
	KeyCount      = 16

	// FlagRegister is the index of VF, which doubles as the carry/borrow/collision flag.
	FlagRegister = 0xF

	DisplayWidth  = 64
	DisplayHeight = 32
)

// InstructionSize is the length in bytes of every opcode.
const InstructionSize uint16 = 2
