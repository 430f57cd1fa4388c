package wire

import (
	"bytes"
	"testing"

	"github.com/tokenized/bitcoin-core/bitcoin"
)

// buildBlockOne builds a single-coinbase-transaction block used as a test
// fixture by both this file and msgparseblock_test.go.
func buildBlockOne() *MsgBlock {
	tx := NewMsgTx(1)
	tx.AddTxIn(NewTxIn(NewOutPoint(&bitcoin.Hash32{}, 0xffffffff), bitcoin.Script{0x51}))
	tx.AddTxOut(NewTxOut(5000000000, bitcoin.Script{0x51}))

	header := NewBlockHeader(1, &bitcoin.Hash32{}, tx.TxHash(), 0x1d00ffff, 0)

	block := NewMsgBlock(header)
	block.AddTransaction(tx)
	return block
}

var blockOne = buildBlockOne()

var blockOneBytes = func() []byte {
	var buf bytes.Buffer
	if err := blockOne.BtcEncode(&buf, 0); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

func TestMsgBlockRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := blockOne.BtcEncode(&buf, 0); err != nil {
		t.Fatalf("Failed to encode block : %s", err)
	}

	var decoded MsgBlock
	if err := decoded.BtcDecode(bytes.NewReader(buf.Bytes()), 0); err != nil {
		t.Fatalf("Failed to decode block : %s", err)
	}

	if decoded.GetTxCount() != 1 {
		t.Fatalf("Wrong tx count : got %d, want %d", decoded.GetTxCount(), 1)
	}

	if !decoded.IsMerkleRootValid() {
		t.Fatalf("Invalid merkle root")
	}

	if decoded.Command() != CmdBlock {
		t.Fatalf("Wrong command : got %s, want %s", decoded.Command(), CmdBlock)
	}
}

func TestMsgBlockGetNextTx(t *testing.T) {
	block := buildBlockOne()

	tx, err := block.GetNextTx()
	if err != nil {
		t.Fatalf("Failed to get first tx : %s", err)
	}
	if tx == nil {
		t.Fatalf("Expected a transaction")
	}

	tx, err = block.GetNextTx()
	if err != nil {
		t.Fatalf("Failed to get second tx : %s", err)
	}
	if tx != nil {
		t.Fatalf("Expected no more transactions")
	}

	block.ResetTxs()
	tx, err = block.GetNextTx()
	if err != nil {
		t.Fatalf("Failed to get tx after reset : %s", err)
	}
	if tx == nil {
		t.Fatalf("Expected a transaction after reset")
	}
}

func TestBlockHeaderHash(t *testing.T) {
	header := NewBlockHeader(1, &bitcoin.Hash32{}, &bitcoin.Hash32{}, 0x1d00ffff, 0)

	hash1 := header.BlockHash()
	hash2 := header.BlockHash()

	if !hash1.Equal(&hash2) {
		t.Fatalf("Block hash not deterministic")
	}

	header.Nonce++
	hash3 := header.BlockHash()
	if hash1.Equal(&hash3) {
		t.Fatalf("Changing nonce did not change block hash")
	}
}
