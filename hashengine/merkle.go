package hashengine

// MerkleRoot computes a Bitcoin-style Merkle root over leaves that are
// already double-SHA-256 digests (e.g. transaction ids). An odd node count
// at any level duplicates the last element rather than promoting it, per
// the historical (CVE-2012-2459-preserving) construction this spec
// deliberately keeps rather than "fixing".
func MerkleRoot(leaves [][]byte) []byte {
	if len(leaves) == 0 {
		return make([]byte, 32)
	}

	level := make([][]byte, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([][]byte, len(level)/2)
		for i := range next {
			next[i] = hashPair(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

func hashPair(left, right []byte) []byte {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	return DoubleSHA256(buf)
}

// MerkleRootPairs is the batched-kernel hook spec §4.1.2 describes: a level
// reduction typically processes many sibling pairs at once, which is where a
// SIMD-accelerated implementation would specialize. The scalar fallback
// here simply calls hashPair for each.
func MerkleRootPairs(pairs [][2][]byte) [][]byte {
	out := make([][]byte, len(pairs))
	for i, p := range pairs {
		out[i] = hashPair(p[0], p[1])
	}
	return out
}
