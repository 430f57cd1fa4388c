package hashengine

import (
	"encoding/binary"

	"github.com/tokenized/bitcoin-core/bitword"
)

var sha1Init = [5]uint32{
	0x67452301, 0xEFCDAB89, 0x98BADCFE, 0x10325476, 0xC3D2E1F0,
}

type sha1Engine struct {
	h [5]uint32
}

func (e *sha1Engine) blockSize() int       { return 64 }
func (e *sha1Engine) digestSize() int      { return 20 }
func (e *sha1Engine) countSize() int       { return 8 }
func (e *sha1Engine) bigEndianCount() bool { return true }

func (e *sha1Engine) reset() { e.h = sha1Init }

func (e *sha1Engine) sum() []byte {
	out := make([]byte, 20)
	for i, v := range e.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func (e *sha1Engine) compress(block []byte) {
	var w [80]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 80; i++ {
		w[i] = bitword.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}

	a, b, c, d, eVal := e.h[0], e.h[1], e.h[2], e.h[3], e.h[4]

	for i := 0; i < 80; i++ {
		var f, k uint32
		switch {
		case i < 20:
			f = (b & c) | (^b & d)
			k = 0x5A827999
		case i < 40:
			f = b ^ c ^ d
			k = 0x6ED9EBA1
		case i < 60:
			f = (b & c) | (b & d) | (c & d)
			k = 0x8F1BBCDC
		default:
			f = b ^ c ^ d
			k = 0xCA62C1D6
		}

		temp := bitword.RotateLeft32(a, 5) + f + eVal + k + w[i]
		eVal = d
		d = c
		c = bitword.RotateLeft32(b, 30)
		b = a
		a = temp
	}

	e.h[0] += a
	e.h[1] += b
	e.h[2] += c
	e.h[3] += d
	e.h[4] += eVal
}

// NewSHA1 returns a fresh unchecked SHA-1 accumulator.
func NewSHA1() *Accumulator { return newAccumulator(&sha1Engine{}, false) }

// SHA1 hashes b in one shot.
func SHA1(b []byte) []byte {
	a := NewSHA1()
	_ = a.Write(b)
	return a.Flush()
}

// DoubleSHA1 hashes the hash, mainly for symmetry/testing; Bitcoin itself
// never double-hashes with SHA-1.
func DoubleSHA1(b []byte) []byte {
	a := NewSHA1()
	_ = a.Write(b)
	return a.DoubleFlush(NewSHA1)
}
