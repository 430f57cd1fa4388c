// Package mnemonic holds the language-splitting behavior mnemonic word-list
// systems share, independent of any particular dictionary: how a list of
// words is joined into a sentence, how a sentence is split back into words,
// and how user-entered words are normalized before being looked up in a
// dictionary. Dictionary data itself is out of scope.
package mnemonic

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Lingo identifies which language's splitting/joining convention applies.
type Lingo int

const (
	English Lingo = iota
	Japanese
)

// ideographicSpace is the delimiter Japanese mnemonic word lists use between
// words (U+3000), matching the BIP39 Japanese wordlist convention.
const ideographicSpace = "　"

// ToDelimiter returns the delimiter used to join words for lingo: an
// ideographic space for Japanese, an ascii space otherwise.
func ToDelimiter(lingo Lingo) string {
	if lingo == Japanese {
		return ideographicSpace
	}
	return " "
}

// Join concatenates words into a single sentence using lingo's delimiter.
func Join(words []string, lingo Lingo) string {
	return strings.Join(words, ToDelimiter(lingo))
}

// Split breaks sentence back into words. Japanese splits on any Unicode
// space/separator character; other languages split on the ascii space only,
// matching how their word lists are delimited.
func Split(sentence string, lingo Lingo) []string {
	if lingo == Japanese {
		return strings.FieldsFunc(sentence, unicode.IsSpace)
	}
	return strings.Split(sentence, " ")
}

// TryNormalize lowercases and NFKD-normalizes each word, trimming ascii
// whitespace from each -- best-effort normalization before a dictionary
// lookup, not a validation step.
func TryNormalize(words []string) []string {
	result := make([]string, len(words))
	for i, w := range words {
		trimmed := strings.Trim(w, " \t\r\n")
		lowered := strings.ToLower(trimmed)
		result[i] = norm.NFKD.String(lowered)
	}
	return result
}
