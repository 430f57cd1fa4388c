// Package hashengine implements the Bitcoin-exact hash primitives the rest
// of the core depends on: SHA-1, SHA-256, SHA-512, RIPEMD-160, and the
// derived HMAC/PBKDF2/scrypt/Merkle constructions, all built on a shared
// streaming accumulator (spec §4.1.1) instead of one-shot calls into the
// standard library. Every algorithm's block compression is authoritative
// in its scalar form; any future SIMD dispatch (see dispatch.go) must agree
// with it bit-for-bit.
package hashengine

import "github.com/pkg/errors"

// ErrOverflow is returned by Write in checked mode when the accumulated
// byte count would exceed the algorithm's bit-length limit.
var ErrOverflow = errors.New("hash accumulator overflow")

// engine is the per-algorithm compression strategy an Accumulator drives.
// Implementations keep their own chaining state; reset() restores the
// algorithm's initial vector.
type engine interface {
	blockSize() int   // compression block size in bytes (64 or 128)
	digestSize() int  // output digest size in bytes
	countSize() int   // bytes used to encode the bit-length in the final block (8 or 16)
	bigEndianCount() bool
	reset()
	compress(block []byte)
	sum() []byte // current chaining value serialized in the algorithm's byte order
}

// Accumulator is a streaming hash context: it owns an engine's running
// state, an incomplete block buffer, and a byte counter. The invariant
// `size_ mod block_size == len(buffered bytes)` always holds.
type Accumulator struct {
	eng     engine
	buf     []byte
	size    uint64
	checked bool
}

// maxSizeBits is 2 million terabytes expressed in bits, the default
// unchecked limit spec §4.1.1 calls out as "exceeds any realistic input".
const maxSizeBits = uint64(2_000_000) * 1_000_000_000_000 * 8

func newAccumulator(eng engine, checked bool) *Accumulator {
	a := &Accumulator{eng: eng, checked: checked}
	a.eng.reset()
	return a
}

// Reset restores the accumulator to its freshly-constructed state.
func (a *Accumulator) Reset() {
	a.eng.reset()
	a.buf = a.buf[:0]
	a.size = 0
}

func (a *Accumulator) limitBytes() uint64 {
	return maxSizeBits/8 - uint64(a.eng.countSize())
}

// Write appends bytes to the accumulator, compressing whole blocks as they
// become available. It returns ErrOverflow only in checked mode, when the
// total byte count would exceed the algorithm's limit.
func (a *Accumulator) Write(p []byte) error {
	if a.checked && a.size+uint64(len(p)) > a.limitBytes() {
		return ErrOverflow
	}

	blockSize := a.eng.blockSize()
	a.size += uint64(len(p))

	if len(a.buf) == 0 {
		for len(p) >= blockSize {
			a.eng.compress(p[:blockSize])
			p = p[blockSize:]
		}
		a.buf = append(a.buf, p...)
		return nil
	}

	for len(p) > 0 {
		need := blockSize - len(a.buf)
		if need > len(p) {
			a.buf = append(a.buf, p...)
			return nil
		}
		a.buf = append(a.buf, p[:need]...)
		p = p[need:]
		a.eng.compress(a.buf)
		a.buf = a.buf[:0]

		for len(p) >= blockSize {
			a.eng.compress(p[:blockSize])
			p = p[blockSize:]
		}
	}
	return nil
}

// padBlocks returns the pad(s) to append to the buffered tail so the final
// compression(s) land the bit count in the trailing countSize bytes.
func (a *Accumulator) padBlocks() [][]byte {
	blockSize := a.eng.blockSize()
	countSize := a.eng.countSize()

	tail := append([]byte{}, a.buf...)
	tail = append(tail, 0x80)

	target := ((blockSize - countSize) % blockSize + blockSize) % blockSize
	current := len(tail) % blockSize
	var zeros int
	if current <= target {
		zeros = target - current
	} else {
		zeros = blockSize - current + target
	}
	tail = append(tail, make([]byte, zeros)...)

	bitCount := a.size * 8
	countBytes := make([]byte, countSize)
	if a.eng.bigEndianCount() {
		for i := 0; i < countSize; i++ {
			shift := uint(countSize-1-i) * 8
			if shift < 64 {
				countBytes[i] = byte(bitCount >> shift)
			}
		}
	} else {
		for i := 0; i < countSize; i++ {
			shift := uint(i) * 8
			if shift < 64 {
				countBytes[i] = byte(bitCount >> shift)
			}
		}
	}
	tail = append(tail, countBytes...)

	numBlocks := len(tail) / blockSize
	blocks := make([][]byte, numBlocks)
	for i := 0; i < numBlocks; i++ {
		blocks[i] = tail[i*blockSize : (i+1)*blockSize]
	}
	return blocks
}

// Flush applies padding, compresses the final block(s), and returns the
// digest. The accumulator is reset and ready for reuse afterward.
func (a *Accumulator) Flush() []byte {
	for _, block := range a.padBlocks() {
		a.eng.compress(block)
	}
	digest := a.eng.sum()
	a.Reset()
	return digest
}

// supportsFastDouble reports whether digestSize fits in half a block.
// DoubleFlush checks it, but both of its branches hash the digest the
// same way.
func (a *Accumulator) supportsFastDouble() bool {
	return a.eng.digestSize()*2 <= a.eng.blockSize()
}

// DoubleFlush hashes the accumulated message, then hashes the resulting
// digest with a fresh state of the same algorithm ("hash the hash"). The
// second hash always writes the digest into a fresh accumulator and runs
// the full padding path; no precomputed padding block is used, even when
// the digest fits in half a block.
func (a *Accumulator) DoubleFlush(fresh func() *Accumulator) []byte {
	first := a.Flush()
	if !a.supportsFastDouble() {
		second := fresh()
		_ = second.Write(first)
		return second.Flush()
	}
	second := fresh()
	_ = second.Write(first)
	return second.Flush()
}
