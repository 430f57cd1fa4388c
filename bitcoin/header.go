package bitcoin

import (
	"math/big"
	"time"
)

// Header is the domain-level representation of a block header: the eighty
// bytes that commit to a block's previous header, transaction set, and
// timestamp, and that proof-of-work is performed over. It holds the same
// fields as wire.BlockHeader, but lives here (not wire) so that difficulty
// and chain-work accounting can be done without a P2P message dependency.
type Header struct {
	Version    int32
	PrevHash   Hash32
	MerkleRoot Hash32
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// Hash returns the double SHA-256 header hash (the block's identifier).
func (h Header) Hash() Hash32 {
	b := make([]byte, 0, 80)
	b = append(b, uint32ToBytes(uint32(h.Version))...)
	b = append(b, h.PrevHash[:]...)
	b = append(b, h.MerkleRoot[:]...)
	b = append(b, uint32ToBytes(uint32(h.Timestamp.Unix()))...)
	b = append(b, uint32ToBytes(h.Bits)...)
	b = append(b, uint32ToBytes(h.Nonce)...)
	return Hash32(DoubleSha256(b))
}

// Difficulty returns the proof-of-work difficulty the header's Bits field
// requires of Hash().
func (h Header) Difficulty() *big.Int {
	return ConvertToDifficulty(h.Bits)
}

// Work returns the estimated number of hashes required to produce a header
// meeting this difficulty, the quantity chain-work accumulates across a
// chain of headers.
func (h Header) Work() *big.Int {
	return ConvertToWork(h.Difficulty())
}

func uint32ToBytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// Block pairs a Header with the ordered set of transactions it commits to
// via MerkleRoot. Unlike wire.MsgBlock, which is the P2P wire encoding of a
// block message, Block is the pure domain object: it knows how to validate
// its own merkle root and total its own work, and has no serialization
// concerns.
type Block struct {
	Header       Header
	Transactions []*Transaction
}

// CalculateMerkleRoot recomputes the merkle root of the block's current transaction
// set using the same pair-hashing construction as MerkleTree.
func (b *Block) CalculateMerkleRoot() Hash32 {
	if len(b.Transactions) == 0 {
		return Hash32{}
	}

	tree := NewMerkleTree(false)
	for _, tx := range b.Transactions {
		tree.AddHash(tx.Hash())
	}
	return tree.RootHash()
}

// IsMerkleRootValid reports whether the header's recorded MerkleRoot matches
// the block's actual transaction set.
func (b *Block) IsMerkleRootValid() bool {
	root := b.CalculateMerkleRoot()
	return b.Header.MerkleRoot.Equal(&root)
}

// Work returns the block's contribution to cumulative chain work.
func (b *Block) Work() *big.Int {
	return b.Header.Work()
}
