package bitcoin

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec"
)

func TestKey(t *testing.T) {
	tests := []struct {
		keyText string
	}{
		{keyText: "619c335025c7f4012e556c2a58b2506e30b8511b53ade95ea316fd8c3286feb"},
		{keyText: "0C28FCA386C7A227600B2FE50B7CAE11EC86D3BF1FBE471BE89827E19D72AA1"},
	}

	for _, tt := range tests {
		t.Run(tt.keyText, func(t *testing.T) {
			data, err := hex.DecodeString(tt.keyText)
			if err != nil {
				t.Fatal(err)
			}

			key, err := KeyFromNumber(data)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(key.Number(), data) {
				t.Errorf("Number round trip: got %x, want %x", key.Number(), data)
			}

			extKey, _ := btcec.PrivKeyFromBytes(btcec.S256(), data)
			if !bytes.Equal(extKey.PubKey().SerializeCompressed(), key.PublicKey().Bytes()) {
				t.Errorf("Public key: got %x, want %x", key.PublicKey().Bytes(),
					extKey.PubKey().SerializeCompressed())
			}

			b := key.Bytes()
			var reverseKey Key
			if err := reverseKey.SetBytes(b); err != nil {
				t.Fatal(err)
			}

			if !reverseKey.Equal(key) {
				t.Errorf("Bytes round trip: got %x, want %x", reverseKey.Bytes(), key.Bytes())
			}
		})
	}
}

func TestKeyTextRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	text, err := key.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var reverseKey Key
	if err := reverseKey.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}

	if !reverseKey.Equal(key) {
		t.Errorf("text round trip: got %x, want %x", reverseKey.Bytes(), key.Bytes())
	}
}

func TestKeySignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	var hash Hash32
	copy(hash[:], []byte("0123456789012345678901234567890"))

	sig, err := key.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}

	if !sig.Verify(hash, key.PublicKey()) {
		t.Errorf("signature did not verify")
	}
}

func TestKeySignRecoverable(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	var hash Hash32
	copy(hash[:], []byte("abcdefghijabcdefghijabcdefghij12"))

	sig, recoveryID, err := key.SignRecoverable(hash)
	if err != nil {
		t.Fatal(err)
	}

	if !sig.Verify(hash, key.PublicKey()) {
		t.Errorf("recoverable signature did not verify normally")
	}

	recovered, err := RecoverPublic(recoveryID, sig, hash[:])
	if err != nil {
		t.Fatal(err)
	}

	if !recovered.Equal(key.PublicKey()) {
		t.Errorf("recovered public key mismatch: got %x, want %x", recovered.Bytes(),
			key.PublicKey().Bytes())
	}
}

func TestKeySignSchnorr(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	var hash Hash32
	copy(hash[:], []byte("schnorrschnorrschnorrschnorrschn"))

	sig, err := key.SignSchnorr(hash)
	if err != nil {
		t.Fatal(err)
	}

	if len(sig) != 64 {
		t.Fatalf("wrong schnorr signature length: got %d, want 64", len(sig))
	}

	pubX, _ := key.PublicKey().Numbers()
	xOnly := make([]byte, 32)
	copy(xOnly[32-len(pubX):], pubX)

	valid, err := VerifySchnorr(xOnly, hash[:], sig)
	if err != nil {
		t.Fatal(err)
	}

	if !valid {
		t.Errorf("schnorr signature did not verify")
	}
}
