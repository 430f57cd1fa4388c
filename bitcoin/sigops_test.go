package bitcoin

import "testing"

func TestSigOpCountSingleCheckSig(t *testing.T) {
	script := Script{OP_CHECKSIG}

	count, err := script.SigOpCount(false)
	if err != nil {
		t.Fatalf("Failed to count sigops : %s", err)
	}
	if count != 1 {
		t.Fatalf("Wrong sigop count : got %d, want %d", count, 1)
	}
}

func TestSigOpCountMultisigDefault(t *testing.T) {
	script := Script{OP_2, OP_CHECKMULTISIG}

	count, err := script.SigOpCount(false)
	if err != nil {
		t.Fatalf("Failed to count sigops : %s", err)
	}
	if count != 20 {
		t.Fatalf("Wrong default multisig sigop count : got %d, want %d", count, 20)
	}
}

func TestSigOpCountMultisigAccurate(t *testing.T) {
	script := Script{OP_2, OP_CHECKMULTISIG}

	count, err := script.SigOpCount(true)
	if err != nil {
		t.Fatalf("Failed to count sigops : %s", err)
	}
	if count != 2 {
		t.Fatalf("Wrong accurate multisig sigop count : got %d, want %d", count, 2)
	}
}

func TestSigOpCountAccurateRequiresImmediatelyPrecedingPush(t *testing.T) {
	// OP_2 followed by an unrelated opcode before CHECKMULTISIG should not
	// be treated as the key count.
	script := Script{OP_2, OP_DUP, OP_CHECKMULTISIG}

	count, err := script.SigOpCount(true)
	if err != nil {
		t.Fatalf("Failed to count sigops : %s", err)
	}
	if count != 20 {
		t.Fatalf("Expected fallback to 20 when small int isn't immediately before CHECKMULTISIG, got %d", count)
	}
}

func TestWeightedSigOpCount(t *testing.T) {
	script := Script{OP_CHECKSIG}

	legacy, err := script.WeightedSigOpCount(false, false)
	if err != nil {
		t.Fatalf("Failed to count weighted sigops : %s", err)
	}
	if legacy != 4 {
		t.Fatalf("Wrong legacy weighted sigop count : got %d, want %d", legacy, 4)
	}

	segwit, err := script.WeightedSigOpCount(true, false)
	if err != nil {
		t.Fatalf("Failed to count weighted sigops : %s", err)
	}
	if segwit != 1 {
		t.Fatalf("Wrong segwit weighted sigop count : got %d, want %d", segwit, 1)
	}
}

func TestHasDisabledOpCode(t *testing.T) {
	clean := Script{OP_DUP, OP_HASH160, OP_EQUALVERIFY, OP_CHECKSIG}
	has, err := clean.HasDisabledOpCode()
	if err != nil {
		t.Fatalf("Failed to scan script : %s", err)
	}
	if has {
		t.Fatalf("Expected no disabled opcode in a plain P2PKH-shaped script")
	}

	reenabled := Script{OP_CAT, OP_EQUAL}
	has, err = reenabled.HasDisabledOpCode()
	if err != nil {
		t.Fatalf("Failed to scan script : %s", err)
	}
	if !has {
		t.Fatalf("Expected OP_CAT to be flagged as disabled")
	}
}
