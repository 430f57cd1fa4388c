package bitcoin

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"io"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

var (
	curveS256       = btcec.S256()
	curveS256Params = curveS256.Params()
	curveHalfOrder  = new(big.Int).Rsh(curveS256.N, 1)

	ErrBadKeyLength = errors.New("Key has invalid length")

	zeroBigInt big.Int
)

const typeIntPrivKey = 0x40

var (
	ErrBadKeyType    = errors.New("Key type unknown")
	ErrOutOfRangeKey = errors.New("Out of range key")
)

// Key is an elliptic curve private key using the secp256k1 elliptic curve.
// WIF text encoding (network byte + base58check) is out of scope here -
// only the raw scalar and the operations built on it.
type Key struct {
	value big.Int
}

// KeyFromBytes decodes a binary bitcoin key. It returns the key and an error if there was an
//   issue.
func KeyFromBytes(b []byte) (Key, error) {
	if len(b) == 0 || b[0] != typeIntPrivKey {
		return Key{}, ErrBadKeyType
	}
	if err := privateKeyIsValid(b[1:]); err != nil {
		return Key{}, err
	}

	var result Key
	result.value.SetBytes(b[1:])
	return result, nil
}

// KeyFromNumber creates a key from a byte representation of a big number.
func KeyFromNumber(b []byte) (Key, error) {
	if err := privateKeyIsValid(b); err != nil {
		return Key{}, err
	}
	var result Key
	result.value.SetBytes(b)
	return result, nil
}

// GenerateKey randomly generates a new key.
func GenerateKey() (Key, error) {
	key, err := ecdsa.GenerateKey(curveS256, rand.Reader)
	if err != nil {
		return Key{}, err
	}

	return Key{value: *key.D}, nil
}

func (k Key) Equal(other Key) bool {
	return k.value.Cmp(&other.value) == 0
}

// SetBytes decodes the key from bytes.
func (k *Key) SetBytes(b []byte) error {
	nk, err := KeyFromBytes(b)
	if err != nil {
		return err
	}

	*k = nk
	return nil
}

// Bytes returns type followed by the key data.
func (k Key) Bytes() []byte {
	b := k.value.Bytes()
	if len(b) < 32 {
		extra := make([]byte, 32-len(b))
		b = append(extra, b...)
	}

	return append([]byte{typeIntPrivKey}, b...)
}

func (k *Key) Deserialize(r io.Reader) error {
	b := make([]byte, 33)
	if _, err := io.ReadFull(r, b); err != nil {
		return errors.Wrap(err, "key")
	}

	return k.SetBytes(b)
}

func (k Key) Serialize(w io.Writer) error {
	_, err := w.Write(k.Bytes())
	return err
}

// Number returns 32 bytes representing the 256 bit big-endian integer of the private key.
func (k Key) Number() []byte {
	b := k.value.Bytes()
	if len(b) < 32 {
		extra := make([]byte, 32-len(b))
		b = append(extra, b...)
	}
	return b
}

// PublicKey returns the public key.
func (k Key) PublicKey() PublicKey {
	x, y := curveS256.ScalarBaseMult(k.value.Bytes())
	return PublicKey{X: *x, Y: *y}
}

// LockingScript returns a PKH locking script for this key.
func (k Key) LockingScript() (Script, error) {
	return k.PublicKey().LockingScript()
}

// IsEmpty returns true if the value is zero.
func (k Key) IsEmpty() bool {
	return k.value.Cmp(&zeroBigInt) == 0
}

// Sign returns the serialized signature of the hash for the private key.
func (k Key) Sign(hash Hash32) (Signature, error) {
	return signRFC6979(k.value, hash[:])
}

// SignRecoverable signs hash and also returns the recovery id needed to
// reconstruct the public key from the signature alone (spec's recoverable
// ECDSA requirement).
func (k Key) SignRecoverable(hash Hash32) (Signature, byte, error) {
	return signRecoverable(k.value, hash[:])
}

// SignSchnorr produces a BIP340 Schnorr signature over hash.
func (k Key) SignSchnorr(hash Hash32) ([]byte, error) {
	return signSchnorr(k.value, hash[:])
}

// AddHash adds a hash to the private key value modulo the curve order -
// the scalar-tweak construction BIP341 taproot key-tweaking and the
// teacher's WP42 key derivation both build on.
func (k Key) AddHash(hash Hash32) (Key, error) {
	b := addPrivateKeys(k.value.Bytes(), hash.Bytes())
	return KeyFromNumber(b)
}

// MarshalText returns the text encoding of the key.
// Implements encoding.TextMarshaler interface.
func (k Key) MarshalText() ([]byte, error) {
	b := k.Bytes()
	result := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(result, b)
	return result, nil
}

// UnmarshalText parses a text encoded key and sets the value of this object.
// Implements encoding.TextUnmarshaler interface.
func (k *Key) UnmarshalText(text []byte) error {
	b := make([]byte, hex.DecodedLen(len(text)))
	if _, err := hex.Decode(b, text); err != nil {
		return err
	}
	return k.SetBytes(b)
}

// MarshalBinary returns the binary encoding of the key.
// Implements encoding.BinaryMarshaler interface.
func (k Key) MarshalBinary() ([]byte, error) {
	return k.Bytes(), nil
}

// UnmarshalBinary parses a binary encoded key and sets the value of this object.
// Implements encoding.BinaryUnmarshaler interface.
func (k *Key) UnmarshalBinary(data []byte) error {
	return k.SetBytes(data)
}

// Scan converts from a database column.
func (k *Key) Scan(data interface{}) error {
	b, ok := data.([]byte)
	if !ok {
		return errors.New("Key db column not bytes")
	}

	c := make([]byte, len(b))
	copy(c, b)
	return k.SetBytes(c)
}

var zeroKeyValue [32]byte

func privateKeyIsValid(b []byte) error {
	// Check for zero private key
	if bytes.Equal(b, zeroKeyValue[:]) {
		return ErrOutOfRangeKey
	}

	// Check for key outside curve
	if bytes.Compare(b, curveS256Params.N.Bytes()) >= 0 {
		return ErrOutOfRangeKey
	}

	return nil
}

func addPrivateKeys(key1 []byte, key2 []byte) []byte {
	var key1Int big.Int
	var key2Int big.Int
	key1Int.SetBytes(key1)
	key2Int.SetBytes(key2)

	key1Int.Add(&key1Int, &key2Int)
	key1Int.Mod(&key1Int, curveS256Params.N)

	b := key1Int.Bytes()
	if len(b) < 32 {
		extra := make([]byte, 32-len(b))
		b = append(extra, b...)
	}
	return b
}
