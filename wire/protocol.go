package wire

// BitcoinNet represents which bitcoin network a message belongs to.
type BitcoinNet uint32

// Constants used to indicate the message bitcoin network.
const (
	// MainNet represents the main bitcoin network.
	MainNet BitcoinNet = 0xe8f3e1e3

	// TestNet3 represents the test network (version 3).
	TestNet3 BitcoinNet = 0xf4e5f3f4

	// RegTest represents the regression test network.
	RegTest BitcoinNet = 0xdab5bffa
)

// ServiceFlag identifies services supported by a bitcoin peer.
type ServiceFlag uint64

const (
	SFNodeNetwork ServiceFlag = 1 << iota
	SFNodeGetUTXO
	SFNodeBloom
)

// InvType represents the allowed types of inventory vectors.
type InvType uint32

const (
	InvTypeError InvType = iota
	InvTypeTx
	InvTypeBlock
	InvTypeFilteredBlock
)

// BloomUpdateType specifies how the bloom filter is updated after a match.
type BloomUpdateType uint8

const (
	BloomUpdateNone BloomUpdateType = iota
	BloomUpdateAll
	BloomUpdateP2PubkeyOnly
)

// RejectCode represents a numeric value by which a remote peer indicates why
// a message was rejected.
type RejectCode uint8

const (
	RejectMalformed       RejectCode = 0x01
	RejectInvalid         RejectCode = 0x10
	RejectObsolete        RejectCode = 0x11
	RejectDuplicate       RejectCode = 0x12
	RejectNonstandard     RejectCode = 0x40
	RejectDust            RejectCode = 0x41
	RejectInsufficientFee RejectCode = 0x42
	RejectCheckpoint      RejectCode = 0x43
)
