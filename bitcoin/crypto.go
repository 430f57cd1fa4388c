package bitcoin

import (
	"math/big"
)

// ECDHSecret returns the secret derived using ECDH (Elliptic Curve Diffie Hellman):
// k * pub, the same scalar-multiply primitive the Schnorr and recoverable-ECDSA
// helpers in signature_ext.go build on.
func ECDHSecret(k Key, pub PublicKey) ([]byte, error) {
	var x, y big.Int
	pubX, pubY := pub.Numbers()
	x.SetBytes(pubX)
	y.SetBytes(pubY)

	sx, _ := curveS256.ScalarMult(&x, &y, k.Number()) // DH is just k * pub
	return sx.Bytes(), nil
}
