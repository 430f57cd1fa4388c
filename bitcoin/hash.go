package bitcoin

import "github.com/tokenized/bitcoin-core/hashengine"

// Ripemd160 returns the RIPEMD (RIPE Message Digest) of the input.
//
// This is a wrapper for easy access to the chosen implementation.
//
// See https://en.wikipedia.org/wiki/RIPEMD
func Ripemd160(b []byte) []byte {
	return hashengine.RMD160(b)
}

// Sha256 returns the SHA256 (Secure Hash Algorithm) of the input.
//
// This is a wrapper for easy access to the chosen implementation.
//
// See https://en.wikipedia.org/wiki/SHA-2
func Sha256(b []byte) []byte {
	return hashengine.SHA256(b)
}

// Sha1 returns the SHA-1 digest of the input.
func Sha1(b []byte) []byte {
	return hashengine.SHA1(b)
}

// Sha512 returns the SHA-512 digest of the input.
func Sha512(b []byte) []byte {
	return hashengine.SHA512(b)
}

// Hash160 returns the Ripemd160(SHA256(input)) of the input.
//
// This is a wrapper for easy access to the chosen implementation.
func Hash160(b []byte) []byte {
	return hashengine.Hash160(b)
}

// DoubleSha256 performs a double Sha256 hash on the bytes.
func DoubleSha256(b []byte) []byte {
	return hashengine.DoubleSHA256(b)
}
