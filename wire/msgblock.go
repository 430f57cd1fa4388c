package wire

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/tokenized/bitcoin-core/bitcoin"

	"github.com/pkg/errors"
)

const (
	// MaxBlockHeaderPayload is the number of bytes in a block header.
	// Version 4 bytes + Timestamp 4 bytes + Bits 4 bytes + Nonce 4 bytes +
	// PrevBlock and MerkleRoot hashes.
	MaxBlockHeaderPayload = 16 + (bitcoin.Hash32Size * 2)

	// MaxBlockPayload is the maximum number of bytes a block message can be.
	MaxBlockPayload = 1024 * 1024 * 1024 // 1GB

	// maxTxPerBlock is the maximum number of transactions that could
	// possibly fit into a block.
	maxTxPerBlock = (MaxBlockPayload / minTxPayload) + 1
)

// BlockHeader defines information about a block and is used in the bitcoin
// block (MsgBlock) and headers (MsgHeaders) messages.
type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock bitcoin.Hash32

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot bitcoin.Hash32

	// Time the block was created.  This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root hash, difficulty bits, and nonce used to
// generate the block with defaults for the remaining fields.
func NewBlockHeader(version int32, prevHash, merkleRootHash *bitcoin.Hash32, bits,
	nonce uint32) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Now(),
		Bits:       bits,
		Nonce:      nonce,
	}
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() bitcoin.Hash32 {
	var buf bytes.Buffer
	buf.Grow(MaxBlockHeaderPayload)
	_ = writeBlockHeader(&buf, 0, h)
	return bitcoin.Hash32(bitcoin.DoubleSha256(buf.Bytes()))
}

func readBlockHeader(r io.Reader, pver uint32, bh *BlockHeader) error {
	return readElements(r, &bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		(*uint32Time)(&bh.Timestamp), &bh.Bits, &bh.Nonce)
}

func writeBlockHeader(w io.Writer, pver uint32, bh *BlockHeader) error {
	return writeElements(w, bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		uint32(bh.Timestamp.Unix()), bh.Bits, bh.Nonce)
}

// MsgBlock implements the Message interface and represents a bitcoin block
// message.  It is used to deliver block and transaction information in
// response to a getdata message (MsgGetData) for a given block hash.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx

	txOffset int
}

// NewMsgBlock returns a new block message that conforms to the Message
// interface. See MsgBlock for details.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{Header: *header}
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// GetHeader returns the header of the block.
func (msg *MsgBlock) GetHeader() BlockHeader {
	return msg.Header
}

// TxHashes returns the txids of every transaction in the block, in order.
func (msg *MsgBlock) TxHashes() []*bitcoin.Hash32 {
	result := make([]*bitcoin.Hash32, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		result = append(result, tx.TxHash())
	}
	return result
}

// CalculateMerkleRoot recomputes the merkle root hash of the block's current
// transaction set.
func (msg *MsgBlock) CalculateMerkleRoot() *bitcoin.Hash32 {
	if len(msg.Transactions) == 0 {
		return &bitcoin.Hash32{}
	}
	return calculateMerkleLevel(msg.TxHashes())
}

// IsMerkleRootValid returns true if the block's calculated merkle root hash
// matches the one recorded in the header.
func (msg *MsgBlock) IsMerkleRootValid() bool {
	root := msg.CalculateMerkleRoot()
	return msg.Header.MerkleRoot.Equal(root)
}

// GetTxCount returns the count of transactions in the block.
func (msg *MsgBlock) GetTxCount() uint64 {
	return uint64(len(msg.Transactions))
}

// GetNextTx implements the Block interface for consumers that iterate
// transactions one at a time regardless of whether the full block or the
// streaming MsgParseBlock was used to read it.
func (msg *MsgBlock) GetNextTx() (*MsgTx, error) {
	if msg.txOffset >= len(msg.Transactions) {
		return nil, nil
	}
	tx := msg.Transactions[msg.txOffset]
	msg.txOffset++
	return tx, nil
}

// ResetTxs resets GetNextTx to the first tx in the block.
func (msg *MsgBlock) ResetTxs() {
	msg.txOffset = 0
}

func (msg *MsgBlock) SerializeSize() int {
	n := MaxBlockHeaderPayload + VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}
	return n
}

func (msg *MsgBlock) BtcDecode(r io.Reader, pver uint32) error {
	if err := readBlockHeader(r, pver, &msg.Header); err != nil {
		return err
	}

	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}

	if count > maxTxPerBlock {
		str := fmt.Sprintf("too many transactions to fit into a block "+
			"[count %d, max %d]", count, maxTxPerBlock)
		return messageError("MsgBlock.BtcDecode", str)
	}

	msg.Transactions = make([]*MsgTx, 0, count)
	for i := uint64(0); i < count; i++ {
		tx := &MsgTx{}
		if err := tx.BtcDecode(r, pver); err != nil {
			return errors.Wrap(err, "decode tx")
		}
		msg.Transactions = append(msg.Transactions, tx)
	}

	return nil
}

func (msg *MsgBlock) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeBlockHeader(w, pver, &msg.Header); err != nil {
		return err
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.Transactions))); err != nil {
		return err
	}

	for _, tx := range msg.Transactions {
		if err := tx.BtcEncode(w, pver); err != nil {
			return errors.Wrap(err, "encode tx")
		}
	}

	return nil
}

func (msg *MsgBlock) Command() string {
	return CmdBlock
}

func (msg *MsgBlock) MaxPayloadLength(pver uint32) uint64 {
	return MaxBlockPayload
}

// calculateMerkleLevel reduces a set of transaction ids to their merkle root
// hash, using the same pair-hashing construction as bitcoin.MerkleTree.
func calculateMerkleLevel(hashes []*bitcoin.Hash32) *bitcoin.Hash32 {
	if len(hashes) == 1 {
		return hashes[0]
	}

	tree := bitcoin.NewMerkleTree(false)
	for _, hash := range hashes {
		tree.AddHash(*hash)
	}

	root := tree.RootHash()
	return &root
}
