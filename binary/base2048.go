package binary

import "github.com/tokenized/bitcoin-core/streamio"

const base2048BitsPerIndex = 11

// PackBase2048 packs data's bytes into a sequence of 11-bit indices
// (0-2047), most significant bits first, padding the final index with
// trailing zero bits if the input isn't a multiple of 11 bits.
func PackBase2048(data []byte) []int {
	bitLen := len(data) * 8
	reader := streamio.NewBitReader(data, bitLen)

	count := (bitLen + base2048BitsPerIndex - 1) / base2048BitsPerIndex
	indices := make([]int, 0, count)

	for reader.Remaining() > 0 {
		remaining := reader.Remaining()
		if remaining >= base2048BitsPerIndex {
			indices = append(indices, int(reader.ReadBits(base2048BitsPerIndex)))
			continue
		}

		// Final partial index: pad the short group with trailing zero bits.
		v := reader.ReadBits(remaining)
		v <<= uint(base2048BitsPerIndex - remaining)
		indices = append(indices, int(v))
	}

	return indices
}

// UnpackBase2048 reverses PackBase2048, producing exactly byteLen bytes.
// The caller supplies byteLen (rather than inferring it from
// len(indices)*11/8) since the final index's low padding bits are
// discarded, not reconstructed.
func UnpackBase2048(indices []int, byteLen int) []byte {
	writer := streamio.NewBitWriter()

	for _, index := range indices {
		writer.WriteBits(uint32(index), base2048BitsPerIndex)
	}

	packed := writer.Bytes()
	if len(packed) >= byteLen {
		return packed[:byteLen]
	}

	out := make([]byte, byteLen)
	copy(out, packed)
	return out
}
