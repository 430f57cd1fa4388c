package bitcoin

import "testing"

func TestHasDuplicatePKH(t *testing.T) {
	a := make([]byte, ScriptHashLength)
	a[0] = 1
	b := make([]byte, ScriptHashLength)
	b[0] = 2

	if hasDuplicatePKH([][]byte{a, b}) {
		t.Fatalf("Distinct hashes should not be flagged as duplicate")
	}

	aCopy := make([]byte, ScriptHashLength)
	copy(aCopy, a)
	if !hasDuplicatePKH([][]byte{a, b, aCopy}) {
		t.Fatalf("Expected repeated hash to be flagged as duplicate")
	}

	if hasDuplicatePKH([][]byte{a}) {
		t.Fatalf("Single hash can't be a duplicate")
	}
}
