package bitcoin

// MerkleTree is an efficient structure for calculating a merkle root hash.
type MerkleTree struct {
	layers []*merkleNodeLayer // First layer, index zero, is the lowest level of the tree.
	prune  bool
	count  int
}

type merkleNodeLayer struct {
	nodes []Hash32
	count int
}

func NewMerkleTree(prune bool) *MerkleTree {
	return &MerkleTree{
		prune: prune,
	}
}

func newMerkleNodeLayer(hash Hash32) *merkleNodeLayer {
	return &merkleNodeLayer{
		nodes: []Hash32{hash},
		count: 1,
	}
}

func (l *merkleNodeLayer) addHash(hash Hash32) {
	l.nodes = append(l.nodes, hash)
	l.count++
}

func (l *merkleNodeLayer) clear() {
	l.nodes = nil
}

func (l merkleNodeLayer) len() int {
	return l.count
}

func (l merkleNodeLayer) lastHash() Hash32 {
	return l.nodes[len(l.nodes)-1]
}

func (l merkleNodeLayer) lastBytes() []byte {
	return l.nodes[len(l.nodes)-1][:]
}

func (l merkleNodeLayer) nextLast() []byte {
	return l.nodes[len(l.nodes)-2][:]
}

// hashPair double-SHA-256 hashes two sibling node values concatenated
// together, the construction each level of a merkle tree reduces with.
func hashPair(left, right []byte) Hash32 {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	h, _ := NewHash32(DoubleSha256(buf)) // DoubleSha256 always returns 32 bytes
	return *h
}

// AddHash adds a new hash to the merkle tree.
func (t *MerkleTree) AddHash(hash Hash32) {

	if len(t.layers) == 0 {
		// First hash in tree
		t.layers = []*merkleNodeLayer{newMerkleNodeLayer(hash)}
		t.count = 1
		return
	}

	next := hash
	t.count++

	// Calculate a new hash up the tree
	for _, layer := range t.layers {
		// Append to this row
		layer.addHash(next)

		l := layer.len()
		if l%2 != 0 {
			return // Above layers do not need to be updated.
		}

		// Even number of hashes in layer. Hash last 2 hashes together to add to layer above.
		next = hashPair(layer.nextLast(), layer.lastBytes())
		if t.prune {
			layer.clear() // Clear out hashes that aren't needed anymore
		}
	}

	// Append new layer
	t.layers = append(t.layers, newMerkleNodeLayer(next))
}

func (t *MerkleTree) RootHash() Hash32 {
	if t.count == 0 {
		return Hash32{} // zero hash
	}
	if t.count == 1 {
		return t.layers[0].lastHash()
	}

	// Check for odd length layer to calculate up from
	var next *Hash32
	for d, layer := range t.layers {
		l := layer.len()

		if next != nil {
			// Odd layer was below this. So keep calculating up.
			if l%2 == 0 {
				// Layer will be odd length with new hash, so hash next hash with itself
				h := hashPair(next[:], next[:])
				next = &h
				continue
			}

			// hash last hash with next hash
			h := hashPair(layer.lastBytes(), next[:])
			next = &h
			continue
		}

		if l%2 != 0 {
			if l == 1 && d == len(t.layers)-1 {
				// Last layer so this is the root hash
				return layer.lastHash()
			}

			// Odd length layer. Calculate from here up.
			h := hashPair(layer.lastBytes(), layer.lastBytes())
			next = &h
		}
	}

	if next == nil {
		return Hash32{} // zero hash
	}
	return *next
}
