package hashengine

// HMACFactory builds fresh accumulators for HMAC's outer/inner contexts;
// NewSHA256, NewSHA512, and NewRMD160 (etc.) all satisfy this shape.
type HMACFactory func() *Accumulator

// HMAC computes the keyed-hash message authentication code for the given
// engine factory, key, and message (RFC 2104).
func HMAC(fresh HMACFactory, key, message []byte) []byte {
	blockSize := fresh().eng.blockSize()

	if len(key) > blockSize {
		a := fresh()
		_ = a.Write(key)
		key = a.Flush()
	}

	padded := make([]byte, blockSize)
	copy(padded, key)

	ipad := make([]byte, blockSize)
	opad := make([]byte, blockSize)
	for i := 0; i < blockSize; i++ {
		ipad[i] = padded[i] ^ 0x36
		opad[i] = padded[i] ^ 0x5c
	}

	inner := fresh()
	_ = inner.Write(ipad)
	_ = inner.Write(message)
	innerDigest := inner.Flush()

	outer := fresh()
	_ = outer.Write(opad)
	_ = outer.Write(innerDigest)
	return outer.Flush()
}
