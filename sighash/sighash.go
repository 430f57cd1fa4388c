// Package sighash computes the signature-hash preimages consensus rules
// require: the original unversioned (pre-BIP143) algorithm, the BIP143
// (segwit v0) algorithm, and the BIP341/342 (taproot v1) algorithm, plus
// the BIP68 relative-locktime check signatures are evaluated alongside.
// It sits above both bitcoin and wire (mirroring the teacher's own
// txbuilder package, which combined the two the same way) since wire's
// MsgTx already depends on bitcoin and a sighash package needs both.
package sighash

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/tokenized/bitcoin-core/bitcoin"
	"github.com/tokenized/bitcoin-core/wire"
)

// Type represents the hash type bits appended to a signature, selecting
// which parts of the transaction the signature commits to.
type Type uint32

const (
	All    Type = 0x1 // Sign all inputs, all outputs
	None   Type = 0x2 // Sign all inputs, no outputs
	Single Type = 0x3 // Sign all inputs, only the output at the same index

	AnyOneCanPay Type = 0x80 // Only the containing input is signed

	typeMask = 0x1f
)

var ErrInvalidIndex = errors.New("Signature hash index out of range")

// Cache memoizes the three aggregate hashes (previous outpoints, sequence
// numbers, outputs) shared across every input's BIP143/v0 signature hash
// for the same transaction, turning validation of an all-inputs SigHashAll
// transaction from O(n^2) into O(n) hashing.
type Cache struct {
	hashPrevOuts []byte
	hashSequence []byte
	hashOutputs  []byte
}

// Clear resets all cached hashes. Call after any change to the transaction.
func (c *Cache) Clear() {
	c.hashPrevOuts = nil
	c.hashSequence = nil
	c.hashOutputs = nil
}

// ClearOutputs resets only the cached outputs hash.
func (c *Cache) ClearOutputs() {
	c.hashOutputs = nil
}

func (c *Cache) prevOutsHash(tx *wire.MsgTx) []byte {
	if c.hashPrevOuts != nil {
		return c.hashPrevOuts
	}

	var buf bytes.Buffer
	for _, in := range tx.TxIn {
		_ = in.PreviousOutPoint.Serialize(&buf)
	}

	c.hashPrevOuts = bitcoin.DoubleSha256(buf.Bytes())
	return c.hashPrevOuts
}

func (c *Cache) sequenceHash(tx *wire.MsgTx) []byte {
	if c.hashSequence != nil {
		return c.hashSequence
	}

	var buf bytes.Buffer
	for _, in := range tx.TxIn {
		_ = binary.Write(&buf, binary.LittleEndian, in.Sequence)
	}

	c.hashSequence = bitcoin.DoubleSha256(buf.Bytes())
	return c.hashSequence
}

func (c *Cache) outputsHash(tx *wire.MsgTx) []byte {
	if c.hashOutputs != nil {
		return c.hashOutputs
	}

	var buf bytes.Buffer
	for _, out := range tx.TxOut {
		_ = out.Serialize(&buf, 0, 0)
	}

	c.hashOutputs = bitcoin.DoubleSha256(buf.Bytes())
	return c.hashOutputs
}

/******************************** Legacy (unversioned) sighash ********************************/

// Legacy computes the original pre-BIP143 signature hash: the whole
// transaction is reserialized with every other input's unlocking script
// blanked and the spent input's replaced by lockScript, then the hash
// type's output-pruning rules are applied before a double-SHA256.
func Legacy(tx *wire.MsgTx, index int, lockScript []byte, hashType Type) (*bitcoin.Hash32, error) {
	if index < 0 || index >= len(tx.TxIn) {
		return nil, ErrInvalidIndex
	}

	txCopy := tx.Copy()

	for i, in := range txCopy.TxIn {
		if i == index {
			in.UnlockingScript = lockScript
		} else {
			in.UnlockingScript = nil
		}
	}

	anyOneCanPay := hashType&AnyOneCanPay != 0
	baseType := hashType & typeMask

	if baseType == None {
		txCopy.TxOut = nil
		for i, in := range txCopy.TxIn {
			if i != index {
				in.Sequence = 0
			}
		}
	} else if baseType == Single {
		if index >= len(txCopy.TxOut) {
			return nil, ErrInvalidIndex
		}
		txCopy.TxOut = txCopy.TxOut[:index+1]
		for i := range txCopy.TxOut {
			if i != index {
				txCopy.TxOut[i].Value = 0xffffffffffffffff
				txCopy.TxOut[i].LockingScript = nil
			}
		}
		for i, in := range txCopy.TxIn {
			if i != index {
				in.Sequence = 0
			}
		}
	}

	if anyOneCanPay {
		txCopy.TxIn = []*wire.TxIn{txCopy.TxIn[index]}
	}

	var buf bytes.Buffer
	if err := txCopy.BtcEncode(&buf, 0); err != nil {
		return nil, errors.Wrap(err, "encode sighash preimage")
	}
	_ = binary.Write(&buf, binary.LittleEndian, uint32(hashType))

	hash := bitcoin.Hash32(bitcoin.DoubleSha256(buf.Bytes()))
	return &hash, nil
}

/******************************** BIP143 (v0) sighash ********************************/

// BIP143 computes the v0 witness signature hash defined by BIP143: the
// preimage commits to aggregated hashes of all inputs' outpoints and
// sequence numbers and all outputs, rather than re-encoding the whole
// (possibly large) transaction per input, and it commits to the exact
// value of the output being spent.
func BIP143(tx *wire.MsgTx, index int, lockScript []byte, value uint64, hashType Type,
	cache *Cache) (*bitcoin.Hash32, error) {

	if index < 0 || index >= len(tx.TxIn) {
		return nil, ErrInvalidIndex
	}
	if cache == nil {
		cache = &Cache{}
	}

	var buf bytes.Buffer
	if err := writeBIP143Preimage(&buf, tx, index, lockScript, value, hashType, cache); err != nil {
		return nil, err
	}

	hash := bitcoin.Hash32(bitcoin.DoubleSha256(buf.Bytes()))
	return &hash, nil
}

func writeBIP143Preimage(w io.Writer, tx *wire.MsgTx, index int, lockScript []byte,
	value uint64, hashType Type, cache *Cache) error {

	var zeroHash [32]byte

	_ = binary.Write(w, binary.LittleEndian, tx.Version)

	anyOneCanPay := hashType&AnyOneCanPay != 0
	baseType := hashType & typeMask

	if !anyOneCanPay {
		if _, err := w.Write(cache.prevOutsHash(tx)); err != nil {
			return err
		}
	} else if _, err := w.Write(zeroHash[:]); err != nil {
		return err
	}

	if !anyOneCanPay && baseType != Single && baseType != None {
		if _, err := w.Write(cache.sequenceHash(tx)); err != nil {
			return err
		}
	} else if _, err := w.Write(zeroHash[:]); err != nil {
		return err
	}

	if err := tx.TxIn[index].PreviousOutPoint.Serialize(w); err != nil {
		return err
	}

	if err := wire.WriteVarBytes(w, 0, lockScript); err != nil {
		return err
	}

	_ = binary.Write(w, binary.LittleEndian, value)
	_ = binary.Write(w, binary.LittleEndian, tx.TxIn[index].Sequence)

	if baseType != Single && baseType != None {
		if _, err := w.Write(cache.outputsHash(tx)); err != nil {
			return err
		}
	} else if baseType == Single && index < len(tx.TxOut) {
		var b bytes.Buffer
		if err := tx.TxOut[index].Serialize(&b, 0, 0); err != nil {
			return err
		}
		if _, err := w.Write(bitcoin.DoubleSha256(b.Bytes())); err != nil {
			return err
		}
	} else if _, err := w.Write(zeroHash[:]); err != nil {
		return err
	}

	_ = binary.Write(w, binary.LittleEndian, tx.LockTime)
	return binary.Write(w, binary.LittleEndian, uint32(hashType))
}

/******************************** BIP341/342 (v1 taproot) sighash ********************************/

// TaprootExtra carries the taproot-specific inputs Taproot needs beyond the
// spent outpoint's value and script: every input's spent output (for the
// aggregate amounts/scriptPubKeys commitments) and, for a script-path
// spend, the tapleaf hash and key version being executed.
type TaprootExtra struct {
	SpentOutputs []*wire.TxOut // one per tx input, in order
	AnnexPresent bool
	TapLeafHash  []byte // nil for a key-path spend
	KeyVersion   byte
}

// Taproot computes the BIP341 (key-path) / BIP342 (script-path) signature
// hash: a single SHA-256 (not double) over a "TapSighash"-tagged preimage
// that commits to the whole set of spent outputs at once instead of
// per-input aggregate hashes.
func Taproot(tx *wire.MsgTx, index int, hashType Type, extra TaprootExtra) (*bitcoin.Hash32, error) {
	if index < 0 || index >= len(tx.TxIn) {
		return nil, ErrInvalidIndex
	}
	if len(extra.SpentOutputs) != len(tx.TxIn) {
		return nil, errors.New("one spent output is required per input")
	}

	var buf bytes.Buffer
	buf.WriteByte(0x00) // epoch

	anyOneCanPay := hashType&AnyOneCanPay != 0
	baseType := hashType & typeMask
	buf.WriteByte(byte(hashType))

	_ = binary.Write(&buf, binary.LittleEndian, tx.Version)
	_ = binary.Write(&buf, binary.LittleEndian, tx.LockTime)

	if !anyOneCanPay {
		var prevOuts, amounts, scripts, sequences bytes.Buffer
		for _, in := range tx.TxIn {
			_ = in.PreviousOutPoint.Serialize(&prevOuts)
			_ = binary.Write(&sequences, binary.LittleEndian, in.Sequence)
		}
		for _, out := range extra.SpentOutputs {
			_ = binary.Write(&amounts, binary.LittleEndian, out.Value)
			_ = wire.WriteVarBytes(&scripts, 0, out.LockingScript)
		}

		buf.Write(taggedSHA256("TapSighash", prevOuts.Bytes()))
		buf.Write(taggedSHA256("TapSighash", amounts.Bytes()))
		buf.Write(taggedSHA256("TapSighash", scripts.Bytes()))
		buf.Write(taggedSHA256("TapSighash", sequences.Bytes()))
	}

	if baseType != None && baseType != Single {
		var outputs bytes.Buffer
		for _, out := range tx.TxOut {
			_ = out.Serialize(&outputs, 0, 0)
		}
		buf.Write(taggedSHA256("TapSighash", outputs.Bytes()))
	}

	spendType := byte(0)
	if extra.TapLeafHash != nil {
		spendType |= 2
	}
	if extra.AnnexPresent {
		spendType |= 1
	}
	buf.WriteByte(spendType)

	if anyOneCanPay {
		if err := tx.TxIn[index].PreviousOutPoint.Serialize(&buf); err != nil {
			return nil, err
		}
		_ = binary.Write(&buf, binary.LittleEndian, extra.SpentOutputs[index].Value)
		_ = wire.WriteVarBytes(&buf, 0, extra.SpentOutputs[index].LockingScript)
		_ = binary.Write(&buf, binary.LittleEndian, tx.TxIn[index].Sequence)
	} else {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(index))
	}

	if baseType == Single {
		if index >= len(tx.TxOut) {
			return nil, errors.New("SIGHASH_SINGLE index out of range for taproot output commitment")
		}
		var out bytes.Buffer
		_ = tx.TxOut[index].Serialize(&out, 0, 0)
		buf.Write(taggedSHA256("TapSighash", out.Bytes()))
	}

	if extra.TapLeafHash != nil {
		buf.Write(extra.TapLeafHash)
		buf.WriteByte(extra.KeyVersion)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(0)) // code separator position, unused
	}

	hash := bitcoin.Hash32(taggedSHA256("TapSighash", buf.Bytes()))
	return &hash, nil
}

func taggedSHA256(tag string, msg []byte) []byte {
	tagHash := bitcoin.Sha256([]byte(tag))
	return bitcoin.Sha256(append(append(append([]byte{}, tagHash...), tagHash...), msg...))
}

/******************************** BIP68 relative locktime ********************************/

const (
	sequenceLockTimeDisableFlag = 1 << 31
	sequenceLockTimeTypeFlag    = 1 << 22
	sequenceLockTimeMask        = 0x0000ffff
	sequenceLockTimeGranularity = 9 // 512 second units, expressed as a bit shift
)

// RelativeLockTimeSatisfied implements BIP68: a transaction input's sequence
// number, when bit 31 is not set, encodes a minimum relative age the
// referenced output must reach (either in blocks, or in 512-second units
// when bit 22 is set) before the spending transaction is valid. version
// must be 2 or higher for BIP68 to apply at all.
func RelativeLockTimeSatisfied(version int32, sequence uint32, inputHeight, spendHeight uint32,
	inputTimeMTP, spendTimeMTP uint32) bool {

	if version < 2 {
		return true
	}
	if sequence&sequenceLockTimeDisableFlag != 0 {
		return true
	}

	if sequence&sequenceLockTimeTypeFlag != 0 {
		required := (sequence & sequenceLockTimeMask) << sequenceLockTimeGranularity
		return spendTimeMTP >= inputTimeMTP+required
	}

	required := sequence & sequenceLockTimeMask
	return spendHeight >= inputHeight+required
}
