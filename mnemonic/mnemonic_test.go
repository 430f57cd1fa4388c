package mnemonic

import (
	"reflect"
	"testing"
)

func TestToDelimiter(t *testing.T) {
	if ToDelimiter(English) != " " {
		t.Fatalf("Expected ascii space delimiter for English")
	}
	if ToDelimiter(Japanese) != ideographicSpace {
		t.Fatalf("Expected ideographic space delimiter for Japanese")
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	words := []string{"abandon", "ability", "able"}

	sentence := Join(words, English)
	if sentence != "abandon ability able" {
		t.Fatalf("Join mismatch : got %q", sentence)
	}

	split := Split(sentence, English)
	if !reflect.DeepEqual(split, words) {
		t.Fatalf("Split mismatch : got %v, want %v", split, words)
	}
}

func TestJoinSplitJapanese(t *testing.T) {
	words := []string{"あいこくしん", "あいさつ", "あいだ"}

	sentence := Join(words, Japanese)
	split := Split(sentence, Japanese)

	if !reflect.DeepEqual(split, words) {
		t.Fatalf("Japanese split mismatch : got %v, want %v", split, words)
	}
}

func TestSplitJapaneseOnAnyUnicodeSpace(t *testing.T) {
	sentence := "あいこくしん あいさつ\tあいだ"
	split := Split(sentence, Japanese)

	if len(split) != 3 {
		t.Fatalf("Expected 3 words splitting on any unicode separator, got %d", len(split))
	}
}

func TestTryNormalizeLowercasesAndTrims(t *testing.T) {
	words := []string{"  Abandon ", "ABILITY"}
	normalized := TryNormalize(words)

	if normalized[0] != "abandon" {
		t.Fatalf("Expected trimmed lowercase, got %q", normalized[0])
	}
	if normalized[1] != "ability" {
		t.Fatalf("Expected lowercase, got %q", normalized[1])
	}
}
