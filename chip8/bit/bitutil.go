package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// CheckedAdd adds two 8 bit unsigned values and detects if an overflow happened.
func CheckedAdd(a, b uint8) (result uint8, overflow bool) {
	sum := uint16(a) + uint16(b)
	return uint8(sum), sum > 0xFF
}

// CheckedSub subtracts b from a and reports whether the subtraction completed
// without a borrow (a >= b).
func CheckedSub(a, b uint8) (result uint8, noBorrow bool) {
	return a - b, a >= b
}

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// Nibble returns the 4 bit group at the given position of a 16 bit value,
// counting from the least significant nibble (0) to the most significant (3).
func Nibble(value uint16, index uint8) uint8 {
	return uint8(value>>(index*4)) & 0x0F
}

// Address returns the low 12 bits of a 16 bit value.
func Address(value uint16) uint16 {
	return value & 0x0FFF
}

// BCD splits a byte into its hundreds, tens and ones decimal digits.
func BCD(value uint8) (hundreds, tens, ones uint8) {
	return value / 100, (value / 10) % 10, value % 10
}
