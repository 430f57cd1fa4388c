package bitcoin

import (
	"bytes"
	"sort"
)

// Point identifies a single transaction output: the id of the transaction
// that created it and its position within that transaction's output list.
// This is the domain analog of wire.OutPoint, kept here so Input/Output can
// reference one without this package depending on wire.
type Point struct {
	Hash  Hash32
	Index uint32
}

func (p Point) Equal(other Point) bool {
	return p.Index == other.Index && p.Hash.Equal(&other.Hash)
}

// IsNull reports whether this is the null outpoint a coinbase input spends.
func (p Point) IsNull() bool {
	return p.Index == 0xffffffff && p.Hash.Equal(&Hash32{})
}

// Input is one spend within a Transaction: the outpoint it consumes, the
// unlocking script (or witness stack, for segregated inputs) proving the
// right to spend it, and the sequence value used for relative locktime and
// replace-by-fee signaling.
type Input struct {
	PreviousOutPoint Point
	UnlockingScript  Script
	Witness          [][]byte
	Sequence         uint32
}

// IsSegregated reports whether this input carries a witness stack rather
// than (or in addition to) a legacy unlocking script.
func (in *Input) IsSegregated() bool {
	return len(in.Witness) > 0
}

// Output is a single payment created by a Transaction: an amount and the
// locking script that must be satisfied to spend it.
type Output struct {
	Value         uint64
	LockingScript Script
}

// Transaction is the domain-level, wire-independent representation of a
// bitcoin transaction: component F's view of a transaction as a value with
// inputs, outputs, and a lazily built cache of the aggregate hashes BIP143
// signing needs, rather than the wire package's P2P message encoding of one
// (wire.MsgTx). Fields mirror wire.MsgTx one-for-one so conversions between
// the two are mechanical; the two types are kept distinct so this package
// never has to import wire.
type Transaction struct {
	Version  int32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32

	hash        *Hash32
	segregated  *bool
	sighashLock sighashCache
}

// sighashCache mirrors the three aggregate hashes the BIP143
// signature algorithm reuses across every input of the same transaction
// (hashPrevouts, hashSequence, hashOutputs). It is populated lazily by
// PrevOutsHash, SequenceHash and OutputsHash. The sighash package keeps its
// own Cache and does not read this one, so this package never imports
// sighash.
type sighashCache struct {
	prevOuts []byte
	sequence []byte
	outputs  []byte
}

// IsSegregated reports whether any input of the transaction carries a
// witness, caching the result the first time it is computed since it is
// checked once per verification pass over a transaction with many inputs.
func (tx *Transaction) IsSegregated() bool {
	if tx.segregated != nil {
		return *tx.segregated
	}

	result := false
	for _, in := range tx.Inputs {
		if in.IsSegregated() {
			result = true
			break
		}
	}
	tx.segregated = &result
	return result
}

// Hash returns the transaction id: the double SHA-256 of the transaction
// serialized without witness data. The result is cached; call
// ClearCache after mutating Inputs, Outputs, Version, or LockTime.
func (tx *Transaction) Hash() Hash32 {
	if tx.hash != nil {
		return *tx.hash
	}

	h := Hash32(DoubleSha256(tx.idSerialize()))
	tx.hash = &h
	return h
}

// ClearCache invalidates the cached hash and segregated flag. Call this
// after mutating the transaction in place (adding an input or output,
// changing a sequence number) so the next Hash/IsSegregated call recomputes
// from current state.
func (tx *Transaction) ClearCache() {
	tx.hash = nil
	tx.segregated = nil
	tx.sighashLock = sighashCache{}
}

// idSerialize serializes version, inputs (outpoint, unlocking script and
// sequence, no witness), outputs, and locktime -- the pre-segwit
// transaction id digest input, which never commits to witness data even for
// segregated transactions.
func (tx *Transaction) idSerialize() []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, uint32ToBytes(uint32(tx.Version))...)
	buf = appendVarInt(buf, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, in.PreviousOutPoint.Hash[:]...)
		buf = append(buf, uint32ToBytes(in.PreviousOutPoint.Index)...)
		buf = appendVarInt(buf, uint64(len(in.UnlockingScript)))
		buf = append(buf, in.UnlockingScript...)
		buf = append(buf, uint32ToBytes(in.Sequence)...)
	}
	buf = appendVarInt(buf, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = append(buf, uint64ToBytes(out.Value)...)
		buf = appendVarInt(buf, uint64(len(out.LockingScript)))
		buf = append(buf, out.LockingScript...)
	}
	buf = append(buf, uint32ToBytes(tx.LockTime)...)
	return buf
}

func uint64ToBytes(v uint64) []byte {
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
}

// PrevOutsHash returns the double SHA-256 of every input's outpoint,
// concatenated in order -- the hashPrevouts aggregate BIP143
// signing commits to instead of re-hashing every outpoint per input
// signed. The result is cached on the transaction.
func (tx *Transaction) PrevOutsHash() []byte {
	if tx.sighashLock.prevOuts != nil {
		return tx.sighashLock.prevOuts
	}

	buf := make([]byte, 0, 36*len(tx.Inputs))
	for _, in := range tx.Inputs {
		buf = append(buf, in.PreviousOutPoint.Hash[:]...)
		buf = append(buf, uint32ToBytes(in.PreviousOutPoint.Index)...)
	}

	tx.sighashLock.prevOuts = DoubleSha256(buf)
	return tx.sighashLock.prevOuts
}

// SequenceHash returns the double SHA-256 of every input's sequence number,
// concatenated in order, the hashSequence aggregate.
func (tx *Transaction) SequenceHash() []byte {
	if tx.sighashLock.sequence != nil {
		return tx.sighashLock.sequence
	}

	buf := make([]byte, 0, 4*len(tx.Inputs))
	for _, in := range tx.Inputs {
		buf = append(buf, uint32ToBytes(in.Sequence)...)
	}

	tx.sighashLock.sequence = DoubleSha256(buf)
	return tx.sighashLock.sequence
}

// OutputsHash returns the double SHA-256 of every serialized output,
// concatenated in order, the hashOutputs aggregate.
func (tx *Transaction) OutputsHash() []byte {
	if tx.sighashLock.outputs != nil {
		return tx.sighashLock.outputs
	}

	buf := make([]byte, 0, 64*len(tx.Outputs))
	for _, out := range tx.Outputs {
		buf = append(buf, uint64ToBytes(out.Value)...)
		buf = appendVarInt(buf, uint64(len(out.LockingScript)))
		buf = append(buf, out.LockingScript...)
	}

	tx.sighashLock.outputs = DoubleSha256(buf)
	return tx.sighashLock.outputs
}

// SortBIP69 reorders Inputs and Outputs into BIP69 canonical order: inputs
// ascending by (previous outpoint hash, previous outpoint index), outputs
// ascending by (value, locking script bytes). Two transactions built from
// the same unordered input/output sets always serialize identically after
// this, which lets independent signers agree on a transaction's bytes
// without otherwise coordinating build order. Call ClearCache afterward --
// this changes Hash and the sighash aggregates.
func (tx *Transaction) SortBIP69() {
	sort.Slice(tx.Inputs, func(i, j int) bool {
		a, b := tx.Inputs[i].PreviousOutPoint, tx.Inputs[j].PreviousOutPoint
		// BIP69 compares the hashes in reversed (displayed) byte order.
		if c := bytes.Compare(a.Hash.ReverseBytes(), b.Hash.ReverseBytes()); c != 0 {
			return c < 0
		}
		return a.Index < b.Index
	})

	sort.Slice(tx.Outputs, func(i, j int) bool {
		a, b := tx.Outputs[i], tx.Outputs[j]
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		return bytes.Compare(a.LockingScript, b.LockingScript) < 0
	})

	tx.ClearCache()
}

// appendVarInt appends a bitcoin varint encoding of v to buf, matching the
// same thresholds as wire.WriteVarInt so the two packages' serializations
// agree byte for byte.
func appendVarInt(buf []byte, v uint64) []byte {
	switch {
	case v < 0xfd:
		return append(buf, byte(v))
	case v <= 0xffff:
		return append(buf, 0xfd, byte(v), byte(v>>8))
	case v <= 0xffffffff:
		return append(buf, 0xfe, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	default:
		return append(buf, 0xff,
			byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
	}
}
