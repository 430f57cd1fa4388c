package hashengine

import "encoding/binary"

// PBKDF2 derives a dkLen-byte key from password and salt using iterations
// rounds of HMAC under fresh, per RFC 2898 / RFC 8018. Bitcoin's BIP39 seed
// derivation and scrypt's outer KDF both build on this.
func PBKDF2(fresh HMACFactory, password, salt []byte, iterations, dkLen int) []byte {
	hLen := fresh().eng.digestSize()
	numBlocks := (dkLen + hLen - 1) / hLen

	dk := make([]byte, 0, numBlocks*hLen)
	for i := 1; i <= numBlocks; i++ {
		dk = append(dk, pbkdf2Block(fresh, password, salt, iterations, uint32(i))...)
	}
	return dk[:dkLen]
}

func pbkdf2Block(fresh HMACFactory, password, salt []byte, iterations int, blockIndex uint32) []byte {
	indexed := make([]byte, len(salt)+4)
	copy(indexed, salt)
	binary.BigEndian.PutUint32(indexed[len(salt):], blockIndex)

	u := HMAC(fresh, password, indexed)
	result := append([]byte{}, u...)

	for i := 1; i < iterations; i++ {
		u = HMAC(fresh, password, u)
		for j := range result {
			result[j] ^= u[j]
		}
	}
	return result
}
