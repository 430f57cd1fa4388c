package bitcoin

import "testing"

func buildTestTransaction() *Transaction {
	return &Transaction{
		Version: 2,
		Inputs: []*Input{
			{
				PreviousOutPoint: Point{Hash: Hash32{1}, Index: 0},
				UnlockingScript:  Script{0x51},
				Sequence:         0xffffffff,
			},
		},
		Outputs: []*Output{
			{Value: 5000, LockingScript: Script{0x51}},
		},
		LockTime: 0,
	}
}

func TestTransactionHashDeterministic(t *testing.T) {
	tx := buildTestTransaction()

	h1 := tx.Hash()
	h2 := tx.Hash()
	if !h1.Equal(&h2) {
		t.Fatalf("Hash not deterministic")
	}
}

func TestTransactionHashChangesWithOutput(t *testing.T) {
	tx := buildTestTransaction()
	h1 := tx.Hash()

	tx.Outputs[0].Value = 4000
	tx.ClearCache()
	h2 := tx.Hash()

	if h1.Equal(&h2) {
		t.Fatalf("Changing output value did not change hash")
	}
}

func TestTransactionIsSegregated(t *testing.T) {
	tx := buildTestTransaction()
	if tx.IsSegregated() {
		t.Fatalf("Expected non-segregated transaction")
	}

	tx.Inputs[0].Witness = [][]byte{{0x01}}
	tx.ClearCache()
	if !tx.IsSegregated() {
		t.Fatalf("Expected segregated transaction")
	}
}

func TestTransactionAggregateHashesCached(t *testing.T) {
	tx := buildTestTransaction()

	p1 := tx.PrevOutsHash()
	p2 := tx.PrevOutsHash()
	if string(p1) != string(p2) {
		t.Fatalf("PrevOutsHash not stable across calls")
	}

	tx.Inputs = append(tx.Inputs, &Input{
		PreviousOutPoint: Point{Hash: Hash32{2}, Index: 1},
		Sequence:         0xffffffff,
	})

	// Cache still holds the stale value until ClearCache is called.
	p3 := tx.PrevOutsHash()
	if string(p1) != string(p3) {
		t.Fatalf("Expected stale cached value before ClearCache")
	}

	tx.ClearCache()
	p4 := tx.PrevOutsHash()
	if string(p1) == string(p4) {
		t.Fatalf("Expected PrevOutsHash to change after adding an input and clearing the cache")
	}
}

func TestPointIsNull(t *testing.T) {
	var p Point
	p.Index = 0xffffffff
	if !p.IsNull() {
		t.Fatalf("Expected null outpoint")
	}

	p.Hash[0] = 1
	if p.IsNull() {
		t.Fatalf("Non-zero hash should not be null")
	}
}

func TestBlockMerkleRootValidation(t *testing.T) {
	tx := buildTestTransaction()
	txHash := tx.Hash()

	block := &Block{
		Header: Header{
			Version:    1,
			MerkleRoot: txHash,
		},
		Transactions: []*Transaction{tx},
	}

	if !block.IsMerkleRootValid() {
		t.Fatalf("Single transaction block should have a valid merkle root equal to its tx hash")
	}

	block.Header.MerkleRoot = Hash32{0xff}
	if block.IsMerkleRootValid() {
		t.Fatalf("Expected mismatched merkle root to be invalid")
	}
}

func TestTransactionSortBIP69(t *testing.T) {
	tx := &Transaction{
		Inputs: []*Input{
			{PreviousOutPoint: Point{Hash: Hash32{2}, Index: 0}},
			{PreviousOutPoint: Point{Hash: Hash32{1}, Index: 1}},
			{PreviousOutPoint: Point{Hash: Hash32{1}, Index: 0}},
		},
		Outputs: []*Output{
			{Value: 500, LockingScript: Script{0x51}},
			{Value: 100, LockingScript: Script{0x52}},
			{Value: 100, LockingScript: Script{0x51}},
		},
	}

	tx.SortBIP69()

	if tx.Inputs[0].PreviousOutPoint.Index != 0 || tx.Inputs[0].PreviousOutPoint.Hash != (Hash32{1}) {
		t.Fatalf("Expected lowest (hash, index) input first, got %+v", tx.Inputs[0].PreviousOutPoint)
	}
	if tx.Inputs[1].PreviousOutPoint.Index != 1 || tx.Inputs[1].PreviousOutPoint.Hash != (Hash32{1}) {
		t.Fatalf("Expected equal-hash inputs ordered by index next, got %+v", tx.Inputs[1].PreviousOutPoint)
	}
	if tx.Inputs[2].PreviousOutPoint.Hash != (Hash32{2}) {
		t.Fatalf("Expected highest hash input last, got %+v", tx.Inputs[2].PreviousOutPoint)
	}

	if tx.Outputs[0].Value != 100 || !tx.Outputs[0].LockingScript.Equal(Script{0x51}) {
		t.Fatalf("Expected lowest (value, script) output first, got %+v", tx.Outputs[0])
	}
	if tx.Outputs[1].Value != 100 || !tx.Outputs[1].LockingScript.Equal(Script{0x52}) {
		t.Fatalf("Expected equal-value outputs ordered by script next, got %+v", tx.Outputs[1])
	}
	if tx.Outputs[2].Value != 500 {
		t.Fatalf("Expected highest value output last, got %+v", tx.Outputs[2])
	}
}

func TestHash32Compare(t *testing.T) {
	a := Hash32{1}
	b := Hash32{2}

	if a.Compare(b) >= 0 {
		t.Fatalf("Expected a < b")
	}
	if b.Compare(a) <= 0 {
		t.Fatalf("Expected b > a")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("Expected equal hashes to compare as 0")
	}
}

func TestHeaderHashChangesWithNonce(t *testing.T) {
	h := Header{Version: 1, Bits: MaxBits}

	h1 := h.Hash()
	h.Nonce++
	h2 := h.Hash()

	if h1.Equal(&h2) {
		t.Fatalf("Changing nonce did not change header hash")
	}
}
