package sighash

import (
	"testing"

	"github.com/tokenized/bitcoin-core/bitcoin"
	"github.com/tokenized/bitcoin-core/wire"
)

func buildTestTx(t *testing.T) (*wire.MsgTx, bitcoin.Key, bitcoin.Script, uint64) {
	t.Helper()

	key, err := bitcoin.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key : %s", err)
	}

	lockingScript, err := key.LockingScript()
	if err != nil {
		t.Fatalf("Failed to build locking script : %s", err)
	}

	var prevHash bitcoin.Hash32
	prevHash[0] = 1

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0), nil))
	tx.AddTxOut(wire.NewTxOut(50000, lockingScript))

	return tx, key, lockingScript, 100000
}

func TestLegacyDeterministic(t *testing.T) {
	tx, _, lockingScript, _ := buildTestTx(t)

	hash1, err := Legacy(tx, 0, lockingScript, All)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	hash2, err := Legacy(tx, 0, lockingScript, All)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	if !hash1.Equal(hash2) {
		t.Fatalf("Sig hash not deterministic : %s vs %s", hash1, hash2)
	}
}

func TestLegacyHashTypesDiffer(t *testing.T) {
	tx, _, lockingScript, _ := buildTestTx(t)

	all, err := Legacy(tx, 0, lockingScript, All)
	if err != nil {
		t.Fatalf("Failed to compute All sig hash : %s", err)
	}

	none, err := Legacy(tx, 0, lockingScript, None)
	if err != nil {
		t.Fatalf("Failed to compute None sig hash : %s", err)
	}

	if all.Equal(none) {
		t.Fatalf("SigHashAll and SigHashNone produced the same hash")
	}
}

func TestLegacySignVerify(t *testing.T) {
	tx, key, lockingScript, _ := buildTestTx(t)

	hash, err := Legacy(tx, 0, lockingScript, All)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	sig, err := key.Sign(*hash)
	if err != nil {
		t.Fatalf("Failed to sign : %s", err)
	}

	if !sig.Verify(*hash, key.PublicKey()) {
		t.Fatalf("Signature failed to verify")
	}
}

func TestLegacyInvalidIndex(t *testing.T) {
	tx, _, lockingScript, _ := buildTestTx(t)

	if _, err := Legacy(tx, 5, lockingScript, All); err != ErrInvalidIndex {
		t.Fatalf("Expected invalid index error, got %s", err)
	}
}

func TestBIP143CacheConsistency(t *testing.T) {
	tx, _, lockingScript, value := buildTestTx(t)

	uncached, err := BIP143(tx, 0, lockingScript, value, All, nil)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	cache := &Cache{}
	cached, err := BIP143(tx, 0, lockingScript, value, All, cache)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	if !uncached.Equal(cached) {
		t.Fatalf("Cached and uncached sig hash differ : %s vs %s", uncached, cached)
	}

	// Second call reusing the populated cache must produce the same hash.
	cachedAgain, err := BIP143(tx, 0, lockingScript, value, All, cache)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	if !cached.Equal(cachedAgain) {
		t.Fatalf("Reused cache produced a different sig hash")
	}
}

func TestBIP143ValueAffectsHash(t *testing.T) {
	tx, _, lockingScript, value := buildTestTx(t)

	hash1, err := BIP143(tx, 0, lockingScript, value, All, nil)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	hash2, err := BIP143(tx, 0, lockingScript, value+1, All, nil)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	if hash1.Equal(hash2) {
		t.Fatalf("Sig hash did not change with spent output value")
	}
}

func TestBIP143SignVerify(t *testing.T) {
	tx, key, lockingScript, value := buildTestTx(t)

	hash, err := BIP143(tx, 0, lockingScript, value, All, nil)
	if err != nil {
		t.Fatalf("Failed to compute sig hash : %s", err)
	}

	sig, err := key.Sign(*hash)
	if err != nil {
		t.Fatalf("Failed to sign : %s", err)
	}

	if !sig.Verify(*hash, key.PublicKey()) {
		t.Fatalf("Signature failed to verify")
	}
}

func TestTaprootKeyPathSignVerify(t *testing.T) {
	tx, key, lockingScript, value := buildTestTx(t)

	spent := []*wire.TxOut{wire.NewTxOut(value, lockingScript)}

	hash, err := Taproot(tx, 0, All, TaprootExtra{SpentOutputs: spent})
	if err != nil {
		t.Fatalf("Failed to compute taproot sig hash : %s", err)
	}

	sig, err := key.SignSchnorr(*hash)
	if err != nil {
		t.Fatalf("Failed to sign schnorr : %s", err)
	}

	xOnly, _ := key.PublicKey().Numbers()
	verified, err := bitcoin.VerifySchnorr(xOnly, hash[:], sig)
	if err != nil {
		t.Fatalf("Failed to verify schnorr signature : %s", err)
	}

	if !verified {
		t.Fatalf("Schnorr signature failed to verify")
	}
}

func TestTaprootScriptPathChangesHash(t *testing.T) {
	tx, _, lockingScript, value := buildTestTx(t)
	spent := []*wire.TxOut{wire.NewTxOut(value, lockingScript)}

	keyPathHash, err := Taproot(tx, 0, All, TaprootExtra{SpentOutputs: spent})
	if err != nil {
		t.Fatalf("Failed to compute key path sig hash : %s", err)
	}

	leafHash := bitcoin.Sha256([]byte("leaf"))
	scriptPathHash, err := Taproot(tx, 0, All, TaprootExtra{
		SpentOutputs: spent,
		TapLeafHash:  leafHash,
		KeyVersion:   0,
	})
	if err != nil {
		t.Fatalf("Failed to compute script path sig hash : %s", err)
	}

	if keyPathHash.Equal(scriptPathHash) {
		t.Fatalf("Key path and script path sig hashes matched")
	}
}

func TestTaprootRequiresSpentOutputPerInput(t *testing.T) {
	tx, _, lockingScript, value := buildTestTx(t)

	_, err := Taproot(tx, 0, All, TaprootExtra{
		SpentOutputs: []*wire.TxOut{wire.NewTxOut(value, lockingScript), wire.NewTxOut(value, lockingScript)},
	})
	if err == nil {
		t.Fatalf("Expected error for mismatched spent output count")
	}
}

func TestRelativeLockTimeSatisfied(t *testing.T) {
	tests := []struct {
		name          string
		version       int32
		sequence      uint32
		inputHeight   uint32
		spendHeight   uint32
		inputTimeMTP  uint32
		spendTimeMTP  uint32
		want          bool
	}{
		{
			name:        "version 1 ignores locktime",
			version:     1,
			sequence:    sequenceLockTimeTypeFlag | 100,
			inputHeight: 0,
			spendHeight: 0,
			want:        true,
		},
		{
			name:        "disable flag set",
			version:     2,
			sequence:    sequenceLockTimeDisableFlag,
			inputHeight: 100,
			spendHeight: 100,
			want:        true,
		},
		{
			name:        "block based not yet satisfied",
			version:     2,
			sequence:    10,
			inputHeight: 100,
			spendHeight: 105,
			want:        false,
		},
		{
			name:        "block based satisfied",
			version:     2,
			sequence:    10,
			inputHeight: 100,
			spendHeight: 110,
			want:        true,
		},
		{
			name:         "time based not yet satisfied",
			version:      2,
			sequence:     sequenceLockTimeTypeFlag | 2,
			inputTimeMTP: 1000,
			spendTimeMTP: 1000 + 512,
			want:         false,
		},
		{
			name:         "time based satisfied",
			version:      2,
			sequence:     sequenceLockTimeTypeFlag | 2,
			inputTimeMTP: 1000,
			spendTimeMTP: 1000 + 1024,
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeLockTimeSatisfied(tt.version, tt.sequence, tt.inputHeight, tt.spendHeight,
				tt.inputTimeMTP, tt.spendTimeMTP)
			if got != tt.want {
				t.Fatalf("Got %t, want %t", got, tt.want)
			}
		})
	}
}
