package bitcoin

import (
	"bytes"
	"testing"
)

func TestSignatureCompact(t *testing.T) {
	sigCompact := "IChdjWiBBd85xYoJegm4C0Gg/7HIH+XFsfz1xXIPtX+fDXyuF2lykeAcKmsKtJuPnCMbcCgX2olXRsGHjRZtsoM="

	sig, err := SignatureFromCompact(sigCompact)
	if err != nil {
		t.Fatalf("Failed to decode compact signature : %s", err)
	}

	reencode := sig.ToCompact()
	if reencode != sigCompact {
		t.Fatalf("Wrong encoding : \ngot  %s\nwant %s", reencode, sigCompact)
	}
}

func TestSignatureSerialize(t *testing.T) {
	sigCompact := "IChdjWiBBd85xYoJegm4C0Gg/7HIH+XFsfz1xXIPtX+fDXyuF2lykeAcKmsKtJuPnCMbcCgX2olXRsGHjRZtsoM="
	sig, err := SignatureFromCompact(sigCompact)
	if err != nil {
		t.Fatalf("Failed to decode compact signature : %s", err)
	}

	var buf bytes.Buffer
	if err := sig.Serialize(&buf); err != nil {
		t.Fatalf("Failed to serialize signature : %s", err)
	}

	var setSig Signature
	if err := setSig.SetBytes(buf.Bytes()); err != nil {
		t.Fatalf("Failed to set bytes on signature : %s", err)
	}

	var readSig Signature
	if err := readSig.Deserialize(&buf); err != nil {
		t.Fatalf("Failed to deserialize signature : %s", err)
	}

	if !sig.Equal(readSig) {
		t.Fatalf("Signatures don't match")
	}
}

func TestSignatureIsLowS(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key : %s", err)
	}

	var hash Hash32
	hash[0] = 1

	sig, err := key.Sign(hash)
	if err != nil {
		t.Fatalf("Failed to sign : %s", err)
	}

	if !sig.IsLowS() {
		t.Fatalf("Expected Key.Sign to always produce a low-S signature")
	}

	highS := sig
	highS.S.Sub(curveS256Params.N, &sig.S)
	if highS.IsLowS() {
		t.Fatalf("Expected N-S to be high-S")
	}
}

func TestScriptHasLowSSignatures(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key : %s", err)
	}

	var hash Hash32
	hash[0] = 2

	sig, err := key.Sign(hash)
	if err != nil {
		t.Fatalf("Failed to sign : %s", err)
	}

	der := sig.Bytes()
	der = append(der, byte(SigHashAll))

	buf := &bytes.Buffer{}
	if err := WritePushDataScript(buf, der); err != nil {
		t.Fatalf("Failed to write push data : %s", err)
	}
	script := Script(buf.Bytes())

	ok, err := script.HasLowSSignatures()
	if err != nil {
		t.Fatalf("Failed to check low-S signatures : %s", err)
	}
	if !ok {
		t.Fatalf("Expected script with a low-S signature to pass")
	}

	highS := sig
	highS.S.Sub(curveS256Params.N, &sig.S)
	// Bytes() always encodes the low-S form, so build the high-S DER by hand.
	rb := canonicalizeInt(highS.R)
	sb := canonicalizeInt(highS.S)
	highDER := []byte{0x30, byte(4 + len(rb) + len(sb)), 0x02, byte(len(rb))}
	highDER = append(highDER, rb...)
	highDER = append(highDER, 0x02, byte(len(sb)))
	highDER = append(highDER, sb...)
	highDER = append(highDER, byte(SigHashAll))

	buf2 := &bytes.Buffer{}
	if err := WritePushDataScript(buf2, highDER); err != nil {
		t.Fatalf("Failed to write push data : %s", err)
	}

	ok, err = Script(buf2.Bytes()).HasLowSSignatures()
	if err != nil {
		t.Fatalf("Failed to check low-S signatures : %s", err)
	}
	if ok {
		t.Fatalf("Expected script with a high-S signature to fail")
	}
}
