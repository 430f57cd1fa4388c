package hashengine

import "golang.org/x/sys/cpu"

// Capabilities reports which batched compression kernels this process could
// use, were one wired in. The scalar implementations in this package are
// authoritative; any SIMD kernel is required to agree with them bit-for-bit
// before it may be dispatched to (spec §4.1.2). No such kernel is wired
// today — DoubleHashPair and MerkleRootPairs always take the scalar path.
type Capabilities struct {
	AVX2   bool
	AVX512 bool
	SHA    bool // native SHA extension instructions (x86 SHA-NI, ARM SHA2)
}

// DetectCapabilities inspects the running CPU for batched-kernel support.
func DetectCapabilities() Capabilities {
	return Capabilities{
		AVX2:   cpu.X86.HasAVX2,
		AVX512: cpu.X86.HasAVX512F,
		SHA:    cpu.X86.HasSHA || cpu.ARM64.HasSHA2,
	}
}
