package hashengine

import (
	"context"
	"encoding/hex"
	"testing"
)

func TestSHA1(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"The quick brown fox jumps over the lazy dog", "2fd4e1c67a2d28fced849ee1bb76e7391b93eb12"},
	}

	for _, tt := range tests {
		got := hex.EncodeToString(SHA1([]byte(tt.input)))
		if got != tt.want {
			t.Errorf("SHA1(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestSHA256(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		got := hex.EncodeToString(SHA256([]byte(tt.input)))
		if got != tt.want {
			t.Errorf("SHA256(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestDoubleSHA256(t *testing.T) {
	b := []byte("bitcoin")
	once := SHA256(b)
	twice := SHA256(once)
	got := DoubleSHA256(b)

	if hex.EncodeToString(got) != hex.EncodeToString(twice) {
		t.Errorf("DoubleSHA256 = %x, want %x", got, twice)
	}
}

func TestSHA512(t *testing.T) {
	want := "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"
	got := hex.EncodeToString(SHA512([]byte("abc")))
	if got != want {
		t.Errorf("SHA512(\"abc\") = %s, want %s", got, want)
	}
}

func TestRMD160(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "9c1185a5c5e9fc54612808977ee8f548b2258d31"},
		{"abc", "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc"},
	}

	for _, tt := range tests {
		got := hex.EncodeToString(RMD160([]byte(tt.input)))
		if got != tt.want {
			t.Errorf("RMD160(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestHash160(t *testing.T) {
	h := Hash160([]byte("test"))
	if len(h) != 20 {
		t.Errorf("Hash160 length = %d, want 20", len(h))
	}
}

func TestMerkleRootSingleLeaf(t *testing.T) {
	leaf := SHA256([]byte("only"))
	root := MerkleRoot([][]byte{leaf})
	if hex.EncodeToString(root) != hex.EncodeToString(leaf) {
		t.Errorf("single-leaf root should equal the leaf itself")
	}
}

func TestMerkleRootOddCountDuplicatesLast(t *testing.T) {
	a := SHA256([]byte("a"))
	b := SHA256([]byte("b"))
	c := SHA256([]byte("c"))

	odd := MerkleRoot([][]byte{a, b, c})
	padded := MerkleRoot([][]byte{a, b, c, c})

	if hex.EncodeToString(odd) != hex.EncodeToString(padded) {
		t.Errorf("odd-count root should match duplicated-last-leaf root")
	}
}

func TestHMACSHA256(t *testing.T) {
	key := []byte("key")
	msg := []byte("The quick brown fox jumps over the lazy dog")
	want := "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"

	got := hex.EncodeToString(HMAC(NewSHA256, key, msg))
	if got != want {
		t.Errorf("HMAC-SHA256 = %s, want %s", got, want)
	}
}

func TestPBKDF2HMACSHA256(t *testing.T) {
	// RFC 7914 §11 test vector.
	want := "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc49ca9cccf179b645991664b39d77ef317c71b845b1e30bd509112041d3a19783"
	got := hex.EncodeToString(PBKDF2(NewSHA256, []byte("passwd"), []byte("salt"), 1, 64))
	if got != want {
		t.Errorf("PBKDF2 = %s, want %s", got, want)
	}
}

func TestScryptParamValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := Scrypt(ctx, []byte("p"), []byte("s"), 3, 8, 1, 32); err == nil {
		t.Error("expected error for non-power-of-two N")
	}
	if _, err := Scrypt(ctx, []byte("p"), []byte("s"), 2, 8, 1, 32); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestScryptKnownVector(t *testing.T) {
	// RFC 7914 §12 first test vector.
	want := "77d6576238657b203b19ca42c18a0497f16b4844e3074ae8dfdffa3fede21442fcd0069ded0948f8326a753a0fc81f17e8d3e0fb2e0d3628cf35e20c38d18906"
	got, err := Scrypt(context.Background(), nil, nil, 16, 1, 1, 64)
	if err != nil {
		t.Fatalf("Scrypt failed: %s", err)
	}
	if hex.EncodeToString(got) != want {
		t.Errorf("Scrypt = %x, want %s", got, want)
	}
}
