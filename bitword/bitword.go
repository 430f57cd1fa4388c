// Package bitword provides the bit- and byte-level primitives that the rest
// of the core is built on: endian conversion, safe casts, shift/rotate,
// masking and popcount. Every function here is a pure function of its
// inputs.
package bitword

import "math/bits"

// Unsigned is the set of integer widths the helpers below operate on.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// BitWidth returns the zero-based position of the most significant set bit,
// or -1 for a zero value.
func BitWidth[T Unsigned](x T) int {
	switch v := any(x).(type) {
	case uint8:
		return 7 - bits.LeadingZeros8(v)
	case uint16:
		return 15 - bits.LeadingZeros16(v)
	case uint32:
		return 31 - bits.LeadingZeros32(v)
	case uint64:
		return 63 - bits.LeadingZeros64(v)
	default:
		return -1
	}
}

// LeftZeros returns the count of leading (most significant) zero bits.
func LeftZeros32(x uint32) int { return bits.LeadingZeros32(x) }

// RightZeros returns the count of trailing (least significant) zero bits.
func RightZeros32(x uint32) int { return bits.TrailingZeros32(x) }

// LeftOnes returns the count of leading one bits.
func LeftOnes32(x uint32) int { return bits.LeadingZeros32(^x) }

// RightOnes returns the count of trailing one bits.
func RightOnes32(x uint32) int { return bits.TrailingZeros32(^x) }

// BitLeft32 returns a mask with only bit n (0 = MSB) set.
func BitLeft32(n uint) uint32 {
	if n >= 32 {
		return 0
	}
	return uint32(1) << (31 - n)
}

// BitRight32 returns a mask with only bit n (0 = LSB) set.
func BitRight32(n uint) uint32 {
	if n >= 32 {
		return 0
	}
	return uint32(1) << n
}

// GetLeft32 extracts the n-th bit counting from the most significant side.
func GetLeft32(x uint32, n uint) uint32 {
	if (x & BitLeft32(n)) != 0 {
		return 1
	}
	return 0
}

// GetRight32 extracts the n-th bit counting from the least significant side.
func GetRight32(x uint32, n uint) uint32 {
	if (x & BitRight32(n)) != 0 {
		return 1
	}
	return 0
}

// SetLeft32 returns x with the n-th bit (from the MSB side) set to value.
func SetLeft32(x uint32, n uint, value bool) uint32 {
	if value {
		return x | BitLeft32(n)
	}
	return x &^ BitLeft32(n)
}

// SetRight32 returns x with the n-th bit (from the LSB side) set to value.
func SetRight32(x uint32, n uint, value bool) uint32 {
	if value {
		return x | BitRight32(n)
	}
	return x &^ BitRight32(n)
}

// MaskLeft32 returns a mask with the leftmost bits bits set.
func MaskLeft32(n uint) uint32 {
	if n == 0 {
		return 0
	}
	if n >= 32 {
		return 0xffffffff
	}
	return ^uint32(0) << (32 - n)
}

// MaskRight32 returns a mask with the rightmost n bits set.
func MaskRight32(n uint) uint32 {
	if n == 0 {
		return 0
	}
	if n >= 32 {
		return 0xffffffff
	}
	return (uint32(1) << n) - 1
}

// UnmaskLeft32 is the bitwise complement of MaskLeft32.
func UnmaskLeft32(n uint) uint32 { return ^MaskLeft32(n) }

// UnmaskRight32 is the bitwise complement of MaskRight32.
func UnmaskRight32(n uint) uint32 { return ^MaskRight32(n) }

// ShiftLeft32 shifts value left by shift bits. When overflow is true and
// shift is at or beyond the value's bit width, the result is zero;
// otherwise the shift amount is taken modulo 32.
func ShiftLeft32(value uint32, shift uint, overflow bool) uint32 {
	if overflow && shift >= 32 {
		return 0
	}
	return value << (shift % 32)
}

// ShiftRight32 is the logical-right analogue of ShiftLeft32.
func ShiftRight32(value uint32, shift uint, overflow bool) uint32 {
	if overflow && shift >= 32 {
		return 0
	}
	return value >> (shift % 32)
}

// RotateLeft32 rotates value left by n bits.
func RotateLeft32(value uint32, n uint) uint32 { return bits.RotateLeft32(value, int(n)) }

// RotateRight32 rotates value right by n bits.
func RotateRight32(value uint32, n uint) uint32 { return bits.RotateLeft32(value, -int(n)) }

// RotateLeft64 rotates a 64-bit value left by n bits (used by SHA-512).
func RotateLeft64(value uint64, n uint) uint64 { return bits.RotateLeft64(value, int(n)) }

// RotateRight64 rotates a 64-bit value right by n bits.
func RotateRight64(value uint64, n uint) uint64 { return bits.RotateLeft64(value, -int(n)) }

// HiWord returns the upper 32 bits of a 64-bit value.
func HiWord(x uint64) uint32 { return uint32(x >> 32) }

// LoWord returns the lower 32 bits of a 64-bit value.
func LoWord(x uint64) uint32 { return uint32(x) }

// Popcount32 returns the number of set bits in x.
func Popcount32(x uint32) int { return bits.OnesCount32(x) }

// Popcount64 returns the number of set bits in x.
func Popcount64(x uint64) int { return bits.OnesCount64(x) }
