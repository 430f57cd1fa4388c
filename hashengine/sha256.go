package hashengine

import (
	"encoding/binary"

	"github.com/tokenized/bitcoin-core/bitword"
)

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var sha256Init = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

type sha256Engine struct {
	h [8]uint32
}

func (e *sha256Engine) blockSize() int       { return 64 }
func (e *sha256Engine) digestSize() int      { return 32 }
func (e *sha256Engine) countSize() int       { return 8 }
func (e *sha256Engine) bigEndianCount() bool { return true }

func (e *sha256Engine) reset() { e.h = sha256Init }

func (e *sha256Engine) sum() []byte {
	out := make([]byte, 32)
	for i, v := range e.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// compress runs the scalar SHA-256 round function over a single 64-byte
// block. Any SIMD path (see dispatch.go) must agree with this bit-for-bit.
func (e *sha256Engine) compress(block []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := bitword.RotateRight32(w[i-15], 7) ^ bitword.RotateRight32(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := bitword.RotateRight32(w[i-2], 17) ^ bitword.RotateRight32(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, f, g, h2, k := e.h[0], e.h[1], e.h[2], e.h[3], e.h[4], e.h[5], e.h[6], e.h[7]

	for i := 0; i < 64; i++ {
		s1 := bitword.RotateRight32(f, 6) ^ bitword.RotateRight32(f, 11) ^ bitword.RotateRight32(f, 25)
		ch := (f & g) ^ (^f & h2)
		t1 := k + s1 + ch + sha256K[i] + w[i]
		s0 := bitword.RotateRight32(a, 2) ^ bitword.RotateRight32(a, 13) ^ bitword.RotateRight32(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		k, h2, g, f, d, c, b, a = h2, g, f, d+t1, c, b, a, t1+t2
	}

	e.h[0] += a
	e.h[1] += b
	e.h[2] += c
	e.h[3] += d
	e.h[4] += f
	e.h[5] += g
	e.h[6] += h2
	e.h[7] += k
}

// NewSHA256 returns a fresh unchecked SHA-256 accumulator.
func NewSHA256() *Accumulator { return newAccumulator(&sha256Engine{}, false) }

// NewSHA256Checked returns a SHA-256 accumulator that reports ErrOverflow
// instead of silently accepting inputs beyond the algorithm's bit-length
// limit.
func NewSHA256Checked() *Accumulator { return newAccumulator(&sha256Engine{}, true) }

// SHA256 hashes b in one shot.
func SHA256(b []byte) []byte {
	a := NewSHA256()
	_ = a.Write(b)
	return a.Flush()
}

// DoubleSHA256 computes SHA-256(SHA-256(b)), the construction sighash
// preimages and block/transaction hashes use throughout.
func DoubleSHA256(b []byte) []byte {
	a := NewSHA256()
	_ = a.Write(b)
	return a.DoubleFlush(NewSHA256)
}

// DoubleHashPair computes DoubleSHA256 of two disjoint 64-byte inputs
// (unpadded; DoubleSHA256 applies the padding) simultaneously; this is the hook a
// batched SIMD implementation would specialize (spec §4.1.2). The scalar
// fallback here simply runs them sequentially.
func DoubleHashPair(a, b []byte) ([]byte, []byte) {
	return DoubleSHA256(a), DoubleSHA256(b)
}
