package bitcoin

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
)

// ScriptPatternType identifies a recognized locking script shape. Unlike
// the teacher's address-oriented raw_address.go, this has no notion of a
// network-encoded address string - it only carries the hash/key material a
// caller needs to build a matching unlocking script or to count sigops.
type ScriptPatternType int

const (
	ScriptPatternUnknown ScriptPatternType = iota
	ScriptPatternPKH                       // pay to public key hash
	ScriptPatternPK                        // pay to public key
	ScriptPatternSH                        // pay to script hash
	ScriptPatternRPH                       // pay to R-puzzle hash
	ScriptPatternMultiPKH                   // M-of-N OR'd public key hashes
	ScriptPatternNonStandard                // possibly spendable, unrecognized shape
)

// ScriptHashLength is the length of standard public key, script, and R
// hashes: RIPEMD160(SHA256(x)).
const ScriptHashLength = 20

// ScriptPattern is the result of matching a locking script against the
// known standard templates.
type ScriptPattern struct {
	Type ScriptPatternType

	Hash      []byte   // PKH, SH, or RPH
	PublicKey []byte   // PK
	Required  int      // MultiPKH
	Hashes    [][]byte // MultiPKH
	Script    []byte   // NonStandard, verbatim
}

// checkNonStandard returns a non-standard pattern if the locking script is
// possibly spendable, or ErrUnknownScriptTemplate otherwise.
func checkNonStandard(lockingScript Script) (ScriptPattern, error) {
	if LockingScriptIsUnspendable(lockingScript) {
		return ScriptPattern{}, ErrUnknownScriptTemplate
	}

	return ScriptPattern{Type: ScriptPatternNonStandard, Script: []byte(lockingScript)}, nil
}

// MatchLockingScript identifies which standard template, if any, a locking
// script follows.
func MatchLockingScript(lockingScript Script) (ScriptPattern, error) {
	if len(lockingScript) == 0 {
		return ScriptPattern{}, ErrUnknownScriptTemplate
	}
	script := lockingScript
	switch script[0] {
	case OP_DUP: // PKH or RPH
		if len(script) < 25 {
			return checkNonStandard(lockingScript)
		}
		script = script[1:]
		switch script[0] {
		case OP_HASH160: // PKH
			if len(script) != 24 {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_PUSH_DATA_20 {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			pkh := script[:ScriptHashLength]
			script = script[ScriptHashLength:]

			if script[0] != OP_EQUALVERIFY {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_CHECKSIG {
				return checkNonStandard(lockingScript)
			}

			return ScriptPattern{Type: ScriptPatternPKH, Hash: pkh}, nil

		case OP_3: // RPH
			if len(script) != 33 {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_SPLIT {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_NIP {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_1 {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_SPLIT {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_SWAP {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_SPLIT {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_DROP {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_HASH160 {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_PUSH_DATA_20 {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			rph := script[:ScriptHashLength]
			script = script[ScriptHashLength:]

			if script[0] != OP_EQUALVERIFY {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_SWAP {
				return checkNonStandard(lockingScript)
			}
			script = script[1:]

			if script[0] != OP_CHECKSIG {
				return checkNonStandard(lockingScript)
			}

			return ScriptPattern{Type: ScriptPatternRPH, Hash: rph}, nil
		}

	case OP_PUSH_DATA_33: // P2PK
		if len(script) != 35 {
			return checkNonStandard(lockingScript)
		}
		script = script[1:]

		pk := script[:PublicKeyCompressedLength]
		script = script[PublicKeyCompressedLength:]

		if script[0] != OP_CHECKSIG {
			return checkNonStandard(lockingScript)
		}

		return ScriptPattern{Type: ScriptPatternPK, PublicKey: pk}, nil

	case OP_HASH160: // P2SH
		if len(script) != 23 {
			return checkNonStandard(lockingScript)
		}
		script = script[1:]

		if script[0] != OP_PUSH_DATA_20 {
			return checkNonStandard(lockingScript)
		}
		script = script[1:]

		sh := script[:ScriptHashLength]
		script = script[ScriptHashLength:]

		if script[0] != OP_EQUAL {
			return checkNonStandard(lockingScript)
		}

		return ScriptPattern{Type: ScriptPatternSH, Hash: sh}, nil

	case OP_0: // MultiPKH
		// 35 = 1 min number push + 4 op codes outside of pkh if statements + 30 per pkh
		if len(script) < 35 {
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}
		script = script[1:]

		if script[0] != OP_TOALTSTACK {
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}
		script = script[1:]

		// Loop through pkhs
		pkhs := make([][]byte, 0, len(script)/30)
		for script[0] == OP_IF {
			script = script[1:]

			if script[0] != OP_DUP {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if script[0] != OP_HASH160 {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if script[0] != OP_PUSH_DATA_20 {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			pkhs = append(pkhs, script[:ScriptHashLength])
			script = script[ScriptHashLength:]

			if script[0] != OP_EQUALVERIFY {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if script[0] != OP_CHECKSIGVERIFY {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if script[0] != OP_FROMALTSTACK {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if script[0] != OP_1ADD {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if script[0] != OP_TOALTSTACK {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if script[0] != OP_ENDIF {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
			script = script[1:]

			if len(script) == 0 {
				return ScriptPattern{}, ErrUnknownScriptTemplate
			}
		}

		if len(script) < 3 {
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}

		// Parse required signature count
		required, length, err := ParsePushNumberScript(script)
		if err != nil {
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}
		script = script[length:]

		if len(script) != 2 {
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}

		if script[0] != OP_FROMALTSTACK {
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}
		script = script[1:]

		if script[0] != OP_LESSTHANOREQUAL {
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}

		if hasDuplicatePKH(pkhs) {
			// Two OR'd branches checking the same hash don't add a real
			// signer to the M-of-N scheme.
			return ScriptPattern{}, ErrUnknownScriptTemplate
		}

		return ScriptPattern{Type: ScriptPatternMultiPKH, Required: int(required), Hashes: pkhs}, nil
	}

	return checkNonStandard(lockingScript)
}

// BuildLockingScript constructs the standard locking script for a pattern.
func BuildLockingScript(p ScriptPattern) (Script, error) {
	switch p.Type {
	case ScriptPatternPKH:
		result := make(Script, 0, 25)
		result = append(result, OP_DUP)
		result = append(result, OP_HASH160)
		result = append(result, OP_PUSH_DATA_20)
		result = append(result, p.Hash...)
		result = append(result, OP_EQUALVERIFY)
		result = append(result, OP_CHECKSIG)
		return result, nil

	case ScriptPatternPK:
		result := make(Script, 0, PublicKeyCompressedLength+2)
		result = append(result, OP_PUSH_DATA_33)
		result = append(result, p.PublicKey...)
		result = append(result, OP_CHECKSIG)
		return result, nil

	case ScriptPatternSH:
		result := make(Script, 0, 23)
		result = append(result, OP_HASH160)
		result = append(result, OP_PUSH_DATA_20)
		result = append(result, p.Hash...)
		result = append(result, OP_EQUAL)
		return result, nil

	case ScriptPatternRPH:
		result := make(Script, 0, 34)
		result = append(result, OP_DUP)
		result = append(result, OP_3)
		result = append(result, OP_SPLIT)
		result = append(result, OP_NIP)
		result = append(result, OP_1)
		result = append(result, OP_SPLIT)
		result = append(result, OP_SWAP)
		result = append(result, OP_SPLIT)
		result = append(result, OP_DROP)
		result = append(result, OP_HASH160)
		result = append(result, OP_PUSH_DATA_20)
		result = append(result, p.Hash...)
		result = append(result, OP_EQUALVERIFY)
		result = append(result, OP_SWAP)
		result = append(result, OP_CHECKSIG)
		return result, nil

	case ScriptPatternMultiPKH:
		count := len(p.Hashes)
		result := make(Script, 0, 14+(count*30))
		result = append(result, OP_FALSE)
		result = append(result, OP_TOALTSTACK)

		for _, pkh := range p.Hashes {
			result = append(result, OP_IF)
			result = append(result, OP_DUP)
			result = append(result, OP_HASH160)
			result = append(result, OP_PUSH_DATA_20)
			result = append(result, pkh...)
			result = append(result, OP_EQUALVERIFY)
			result = append(result, OP_CHECKSIGVERIFY)
			result = append(result, OP_FROMALTSTACK)
			result = append(result, OP_1ADD)
			result = append(result, OP_TOALTSTACK)
			result = append(result, OP_ENDIF)
		}

		result = append(result, PushNumberScript(int64(p.Required))...)
		result = append(result, OP_FROMALTSTACK)
		result = append(result, OP_LESSTHANOREQUAL)
		return result, nil

	case ScriptPatternNonStandard:
		return NewScript(p.Script), nil
	}

	return nil, ErrUnknownScriptTemplate
}

// PublicKeyFromLockingScript returns the serialized compressed public key
// from the locking script if there is one. It only works for P2PK locking
// scripts.
func PublicKeyFromLockingScript(lockingScript []byte) ([]byte, error) {
	if len(lockingScript) < 2 {
		return nil, ErrUnknownScriptTemplate
	}

	buf := bytes.NewReader(lockingScript)

	_, firstPush, err := ParsePushDataScript(buf)
	if err != nil {
		return nil, err
	}

	if isPublicKey(firstPush) {
		return firstPush, nil
	}

	return nil, ErrUnknownScriptTemplate
}

// hasDuplicatePKH reports whether two entries in pkhs are the same hash, by
// sorting copies rather than mutating the caller's slice.
func hasDuplicatePKH(pkhs [][]byte) bool {
	if len(pkhs) < 2 {
		return false
	}

	sorted := make([]Hash20, len(pkhs))
	for i, pkh := range pkhs {
		copy(sorted[i][:], pkh)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Compare(sorted[j]) < 0 })

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Compare(sorted[i]) == 0 {
			return true
		}
	}

	return false
}

// ErrUnknownScriptTemplate is returned when a script doesn't match any
// recognized standard pattern.
var ErrUnknownScriptTemplate = errors.New("Unknown script template")

// ErrNotEnoughData is returned when a partial script (e.g. an unlocking
// script alone) can't resolve a pattern without its counterpart.
var ErrNotEnoughData = errors.New("Not enough data")
