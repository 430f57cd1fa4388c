package hashengine

import (
	"encoding/binary"

	"github.com/tokenized/bitcoin-core/bitword"
)

// RIPEMD-160 uses a little-endian bit count in its final block, unlike the
// SHA family (spec §4.1.1), and runs two independent parallel lines that are
// combined at the end of each block.

var rmd160Init = [5]uint32{
	0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0,
}

var rmd160Rl = [80]uint {
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	7, 4, 13, 1, 10, 6, 15, 3, 12, 0, 9, 5, 2, 14, 11, 8,
	3, 10, 14, 4, 9, 15, 8, 1, 2, 7, 0, 6, 13, 11, 5, 12,
	1, 9, 11, 10, 0, 8, 12, 4, 13, 3, 7, 15, 14, 5, 6, 2,
	4, 0, 5, 9, 7, 12, 2, 10, 14, 1, 3, 8, 11, 6, 15, 13,
}

var rmd160Rr = [80]uint {
	5, 14, 7, 0, 9, 2, 11, 4, 13, 6, 15, 8, 1, 10, 3, 12,
	6, 11, 3, 7, 0, 13, 5, 10, 14, 15, 8, 12, 4, 9, 1, 2,
	15, 5, 1, 3, 7, 14, 6, 9, 11, 8, 12, 2, 10, 0, 4, 13,
	8, 6, 4, 1, 3, 11, 15, 0, 5, 12, 2, 13, 9, 7, 10, 14,
	12, 15, 10, 4, 1, 5, 8, 7, 6, 2, 13, 14, 0, 3, 9, 11,
}

var rmd160Sl = [80]uint {
	11, 14, 15, 12, 5, 8, 7, 9, 11, 13, 14, 15, 6, 7, 9, 8,
	7, 6, 8, 13, 11, 9, 7, 15, 7, 12, 15, 9, 11, 7, 13, 12,
	11, 13, 6, 7, 14, 9, 13, 15, 14, 8, 13, 6, 5, 12, 7, 5,
	11, 12, 14, 15, 14, 15, 9, 8, 9, 14, 5, 6, 8, 6, 5, 12,
	9, 15, 5, 11, 6, 8, 13, 12, 5, 12, 13, 14, 11, 8, 5, 6,
}

var rmd160Sr = [80]uint {
	8, 9, 9, 11, 13, 15, 15, 5, 7, 7, 8, 11, 14, 14, 12, 6,
	9, 13, 15, 7, 12, 8, 9, 11, 7, 7, 12, 7, 6, 15, 13, 11,
	9, 7, 15, 11, 8, 6, 6, 14, 12, 13, 5, 14, 13, 13, 7, 5,
	15, 5, 8, 11, 14, 14, 6, 14, 6, 9, 12, 9, 12, 5, 15, 8,
	8, 5, 12, 9, 12, 5, 14, 6, 8, 13, 6, 5, 15, 13, 11, 11,
}

var rmd160Kl = [5]uint32{0x00000000, 0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e}
var rmd160Kr = [5]uint32{0x50a28be6, 0x5c4dd124, 0x6d703ef3, 0x7a6d76e9, 0x00000000}

func rmd160F(j int, x, y, z uint32) uint32 {
	switch {
	case j < 16:
		return x ^ y ^ z
	case j < 32:
		return (x & y) | (^x & z)
	case j < 48:
		return (x | ^y) ^ z
	case j < 64:
		return (x & z) | (y & ^z)
	default:
		return x ^ (y | ^z)
	}
}

type rmd160Engine struct {
	h [5]uint32
}

func (e *rmd160Engine) blockSize() int       { return 64 }
func (e *rmd160Engine) digestSize() int      { return 20 }
func (e *rmd160Engine) countSize() int       { return 8 }
func (e *rmd160Engine) bigEndianCount() bool { return false }

func (e *rmd160Engine) reset() { e.h = rmd160Init }

func (e *rmd160Engine) sum() []byte {
	out := make([]byte, 20)
	for i, v := range e.h {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func (e *rmd160Engine) compress(block []byte) {
	var x [16]uint32
	for i := 0; i < 16; i++ {
		x[i] = binary.LittleEndian.Uint32(block[i*4:])
	}

	al, bl, cl, dl, el := e.h[0], e.h[1], e.h[2], e.h[3], e.h[4]
	ar, br, cr, dr, er := e.h[0], e.h[1], e.h[2], e.h[3], e.h[4]

	for j := 0; j < 80; j++ {
		round := j / 16

		t := bitword.RotateLeft32(al+rmd160F(j, bl, cl, dl)+x[rmd160Rl[j]]+rmd160Kl[round], rmd160Sl[j]) + el
		al, el, dl, cl, bl = el, dl, bitword.RotateLeft32(cl, 10), bl, t

		t = bitword.RotateLeft32(ar+rmd160F(79-j, br, cr, dr)+x[rmd160Rr[j]]+rmd160Kr[round], rmd160Sr[j]) + er
		ar, er, dr, cr, br = er, dr, bitword.RotateLeft32(cr, 10), br, t
	}

	t := e.h[1] + cl + dr
	e.h[1] = e.h[2] + dl + er
	e.h[2] = e.h[3] + el + ar
	e.h[3] = e.h[4] + al + br
	e.h[4] = e.h[0] + bl + cr
	e.h[0] = t
}

// NewRMD160 returns a fresh unchecked RIPEMD-160 accumulator.
func NewRMD160() *Accumulator { return newAccumulator(&rmd160Engine{}, false) }

// RMD160 hashes b in one shot.
func RMD160(b []byte) []byte {
	a := NewRMD160()
	_ = a.Write(b)
	return a.Flush()
}

// Hash160 is SHA-256 followed by RIPEMD-160, the construction Bitcoin uses
// to derive public key and script hashes.
func Hash160(b []byte) []byte {
	return RMD160(SHA256(b))
}
