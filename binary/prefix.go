// Package binary provides a bit-string prefix type -- a fixed-size run of
// bits packed big-endian into a byte vector with zeroed trailing bits --
// and the base2048 packing built on top of it.
package binary

import (
	"strings"

	"github.com/tokenized/bitcoin-core/streamio"
)

// Prefix is a bit string of a fixed Size, packed big-endian into Data with
// any trailing bits in the final byte zeroed.
type Prefix struct {
	Data []byte
	Size int // number of valid bits
}

// NewPrefix wraps data, exposing its first size bits.
func NewPrefix(data []byte, size int) Prefix {
	return Prefix{Data: data, Size: size}
}

// bytesNeeded returns the minimal byte count to hold n bits.
func bytesNeeded(n int) int {
	return (n + 7) / 8
}

// ShiftLeft returns a new Prefix with the first d bits dropped, reducing
// Size by d (floored at zero).
func (p Prefix) ShiftLeft(d int) Prefix {
	if d >= p.Size {
		return Prefix{Size: 0}
	}

	reader := streamio.NewBitReader(p.Data, p.Size)
	reader.ReadBits(d)

	newSize := p.Size - d
	writer := streamio.NewBitWriter()
	for i := 0; i < newSize; i++ {
		writer.WriteBit(reader.ReadBit())
	}

	return Prefix{Data: writer.Bytes(), Size: newSize}
}

// ShiftRight returns a new Prefix with d zero bits prepended, growing Size
// by d.
func (p Prefix) ShiftRight(d int) Prefix {
	writer := streamio.NewBitWriter()
	writer.WriteBits(0, d)

	reader := streamio.NewBitReader(p.Data, p.Size)
	for i := 0; i < p.Size; i++ {
		writer.WriteBit(reader.ReadBit())
	}

	return Prefix{Data: writer.Bytes(), Size: p.Size + d}
}

// Append returns the bit-aligned concatenation of p followed by other.
func (p Prefix) Append(other Prefix) Prefix {
	writer := streamio.NewBitWriter()

	reader := streamio.NewBitReader(p.Data, p.Size)
	for i := 0; i < p.Size; i++ {
		writer.WriteBit(reader.ReadBit())
	}

	otherReader := streamio.NewBitReader(other.Data, other.Size)
	for i := 0; i < other.Size; i++ {
		writer.WriteBit(otherReader.ReadBit())
	}

	return Prefix{Data: writer.Bytes(), Size: p.Size + other.Size}
}

// Prepend returns the bit-aligned concatenation of other followed by p.
func (p Prefix) Prepend(other Prefix) Prefix {
	return other.Append(p)
}

// Substring returns the length bits starting at start. A start past the end
// of the bit string yields an empty Prefix; a length that would run past
// the end is truncated rather than erroring.
func (p Prefix) Substring(start, length int) Prefix {
	if start >= p.Size {
		return Prefix{Size: 0}
	}

	if start+length > p.Size {
		length = p.Size - start
	}

	reader := streamio.NewBitReader(p.Data, p.Size)
	reader.ReadBits(start)

	writer := streamio.NewBitWriter()
	for i := 0; i < length; i++ {
		writer.WriteBit(reader.ReadBit())
	}

	return Prefix{Data: writer.Bytes(), Size: length}
}

// Blocks returns the minimal-byte packed form of the bit string.
func (p Prefix) Blocks() []byte {
	n := bytesNeeded(p.Size)
	if n >= len(p.Data) {
		return p.Data
	}
	return p.Data[:n]
}

// Encoded returns the bit string as an ASCII "01" string, most significant
// bit first.
func (p Prefix) Encoded() string {
	var b strings.Builder
	b.Grow(p.Size)

	reader := streamio.NewBitReader(p.Data, p.Size)
	for i := 0; i < p.Size; i++ {
		if reader.ReadBit() == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	return b.String()
}
