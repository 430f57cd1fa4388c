package hashengine

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"

	"github.com/tokenized/bitcoin-core/logger"
	"github.com/tokenized/bitcoin-core/threads"
)

// Scrypt derives a dkLen-byte key per RFC 7914: an outer PBKDF2-HMAC-SHA256
// pass spreads the password/salt across p independent ROMix blocks, each of
// which does its own PBKDF2-seeded Salsa20/8 memory-hard mixing, and a
// final PBKDF2 pass folds the p blocks back into the output. The p ROMix
// blocks are independent of each other (RFC 7914 §6), so they run on their
// own thread each via the threads package, joined before the closing
// PBKDF2 pass.
//
// N must be a power of two greater than 1, r and p must satisfy r*p < 2^30,
// and 128*r*(N+p) must fit in memory; ErrInvalidScryptParams is returned
// otherwise.
func Scrypt(ctx context.Context, password, salt []byte, n, r, p, dkLen int) ([]byte, error) {
	if n <= 1 || n&(n-1) != 0 {
		return nil, errors.Wrap(ErrInvalidScryptParams, "N must be a power of two > 1")
	}
	if uint64(r)*uint64(p) >= 1<<30 {
		return nil, errors.Wrap(ErrInvalidScryptParams, "r*p too large")
	}

	logger.Verbose(ctx, "Running scrypt romix across %d blocks, N=%d, r=%d", p, n, r)

	b := PBKDF2(NewSHA256, password, salt, 1, p*128*r)

	blocks := make([][]byte, p)
	for i := 0; i < p; i++ {
		blocks[i] = b[i*128*r : (i+1)*128*r]
	}

	wait := &sync.WaitGroup{}
	romixThreads := make(threads.Threads, p)
	for i := range blocks {
		block := blocks[i]
		romixThreads[i] = threads.NewThreadWithoutStop("scrypt-romix",
			func(ctx context.Context) error {
				scryptROMix(block, n, r)
				return nil
			})
		romixThreads[i].SetWait(wait)
	}
	romixThreads.Start(ctx)
	wait.Wait()

	if errs := romixThreads.Errors(); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "romix block")
	}

	logger.Verbose(ctx, "Finished scrypt romix, folding %d blocks", p)

	combined := make([]byte, 0, p*128*r)
	for _, block := range blocks {
		combined = append(combined, block...)
	}

	return PBKDF2(NewSHA256, password, combined, 1, dkLen), nil
}

// ErrInvalidScryptParams is returned when Scrypt's cost parameters fail
// the invariants RFC 7914 places on N, r, and p.
var ErrInvalidScryptParams = errors.New("invalid scrypt parameters")

func scryptROMix(b []byte, n, r int) {
	blockWords := 32 * r
	x := make([]uint32, blockWords)
	bytesToWords(b, x)

	v := make([][]uint32, n)
	for i := 0; i < n; i++ {
		v[i] = append([]uint32{}, x...)
		scryptBlockMix(x, r)
	}

	t := make([]uint32, blockWords)
	for i := 0; i < n; i++ {
		j := int(x[blockWords-16] & uint32(n-1))
		for k := range t {
			t[k] = x[k] ^ v[j][k]
		}
		copy(x, t)
		scryptBlockMix(x, r)
	}

	wordsToBytes(x, b)
}

// scryptBlockMix applies Salsa20/8 to each 64-byte sub-block of x in place,
// following RFC 7914 §4 (including its deinterleave-by-parity step).
func scryptBlockMix(x []uint32, r int) {
	const wordsPerBlock = 16
	blocks := 2 * r

	y := make([][]uint32, blocks)
	xPrev := x[(blocks-1)*wordsPerBlock : blocks*wordsPerBlock]

	tmp := make([]uint32, wordsPerBlock)
	for i := 0; i < blocks; i++ {
		cur := x[i*wordsPerBlock : (i+1)*wordsPerBlock]
		for k := 0; k < wordsPerBlock; k++ {
			tmp[k] = xPrev[k] ^ cur[k]
		}
		salsa20_8(tmp)
		y[i] = append([]uint32{}, tmp...)
		xPrev = y[i]
	}

	out := make([]uint32, len(x))
	half := blocks / 2
	for i := 0; i < half; i++ {
		copy(out[i*wordsPerBlock:(i+1)*wordsPerBlock], y[2*i])
		copy(out[(half+i)*wordsPerBlock:(half+i+1)*wordsPerBlock], y[2*i+1])
	}
	copy(x, out)
}

func salsaRotl(v uint32, c uint) uint32 {
	return (v << c) | (v >> (32 - c))
}

// salsa20_8 applies the 8-round Salsa20 core to a 16-word block in place.
func salsa20_8(b []uint32) {
	var x [16]uint32
	copy(x[:], b)

	for i := 0; i < 8; i += 2 {
		x[4] ^= salsaRotl(x[0]+x[12], 7)
		x[8] ^= salsaRotl(x[4]+x[0], 9)
		x[12] ^= salsaRotl(x[8]+x[4], 13)
		x[0] ^= salsaRotl(x[12]+x[8], 18)

		x[9] ^= salsaRotl(x[5]+x[1], 7)
		x[13] ^= salsaRotl(x[9]+x[5], 9)
		x[1] ^= salsaRotl(x[13]+x[9], 13)
		x[5] ^= salsaRotl(x[1]+x[13], 18)

		x[14] ^= salsaRotl(x[10]+x[6], 7)
		x[2] ^= salsaRotl(x[14]+x[10], 9)
		x[6] ^= salsaRotl(x[2]+x[14], 13)
		x[10] ^= salsaRotl(x[6]+x[2], 18)

		x[3] ^= salsaRotl(x[15]+x[11], 7)
		x[7] ^= salsaRotl(x[3]+x[15], 9)
		x[11] ^= salsaRotl(x[7]+x[3], 13)
		x[15] ^= salsaRotl(x[11]+x[7], 18)

		x[1] ^= salsaRotl(x[0]+x[3], 7)
		x[2] ^= salsaRotl(x[1]+x[0], 9)
		x[3] ^= salsaRotl(x[2]+x[1], 13)
		x[0] ^= salsaRotl(x[3]+x[2], 18)

		x[6] ^= salsaRotl(x[5]+x[4], 7)
		x[7] ^= salsaRotl(x[6]+x[5], 9)
		x[4] ^= salsaRotl(x[7]+x[6], 13)
		x[5] ^= salsaRotl(x[4]+x[7], 18)

		x[11] ^= salsaRotl(x[10]+x[9], 7)
		x[8] ^= salsaRotl(x[11]+x[10], 9)
		x[9] ^= salsaRotl(x[8]+x[11], 13)
		x[10] ^= salsaRotl(x[9]+x[8], 18)

		x[12] ^= salsaRotl(x[15]+x[14], 7)
		x[13] ^= salsaRotl(x[12]+x[15], 9)
		x[14] ^= salsaRotl(x[13]+x[12], 13)
		x[15] ^= salsaRotl(x[14]+x[13], 18)
	}

	for i := range b {
		b[i] += x[i]
	}
}

func bytesToWords(b []byte, w []uint32) {
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
}

func wordsToBytes(w []uint32, b []byte) {
	for i, v := range w {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
}
