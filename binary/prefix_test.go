package binary

import "testing"

func TestPrefixEncoded(t *testing.T) {
	p := NewPrefix([]byte{0xb0}, 4) // 1011 0000 -> first 4 bits 1011
	if got := p.Encoded(); got != "1011" {
		t.Fatalf("Encoded mismatch : got %s, want %s", got, "1011")
	}
}

func TestPrefixShiftLeft(t *testing.T) {
	p := NewPrefix([]byte{0b10110000}, 8)
	shifted := p.ShiftLeft(2)

	if shifted.Size != 6 {
		t.Fatalf("Wrong size after shift : got %d, want %d", shifted.Size, 6)
	}
	if got := shifted.Encoded(); got != "110000" {
		t.Fatalf("ShiftLeft mismatch : got %s, want %s", got, "110000")
	}
}

func TestPrefixShiftRight(t *testing.T) {
	p := NewPrefix([]byte{0b11110000}, 4)
	shifted := p.ShiftRight(2)

	if shifted.Size != 6 {
		t.Fatalf("Wrong size after shift : got %d, want %d", shifted.Size, 6)
	}
	if got := shifted.Encoded(); got != "001111" {
		t.Fatalf("ShiftRight mismatch : got %s, want %s", got, "001111")
	}
}

func TestPrefixAppend(t *testing.T) {
	a := NewPrefix([]byte{0b11000000}, 2) // "11"
	b := NewPrefix([]byte{0b10100000}, 3) // "101"

	combined := a.Append(b)
	if combined.Size != 5 {
		t.Fatalf("Wrong combined size : got %d, want %d", combined.Size, 5)
	}
	if got := combined.Encoded(); got != "11101" {
		t.Fatalf("Append mismatch : got %s, want %s", got, "11101")
	}
}

func TestPrefixSubstringTruncatesPastEnd(t *testing.T) {
	p := NewPrefix([]byte{0b11010000}, 4) // "1101"

	sub := p.Substring(1, 10)
	if sub.Size != 3 {
		t.Fatalf("Expected truncated length 3, got %d", sub.Size)
	}
	if got := sub.Encoded(); got != "101" {
		t.Fatalf("Substring mismatch : got %s, want %s", got, "101")
	}
}

func TestPrefixSubstringStartPastEndIsEmpty(t *testing.T) {
	p := NewPrefix([]byte{0xff}, 4)

	sub := p.Substring(10, 2)
	if sub.Size != 0 {
		t.Fatalf("Expected empty substring, got size %d", sub.Size)
	}
}

func TestPrefixBlocks(t *testing.T) {
	p := NewPrefix([]byte{0xff, 0xff}, 9)
	if len(p.Blocks()) != 2 {
		t.Fatalf("Expected 2 bytes for 9 bits, got %d", len(p.Blocks()))
	}
}
