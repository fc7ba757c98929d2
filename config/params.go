package config

// Protocol parameters. Unlike the rest of this package, these are fixed
// by the implementation and must match across every node — they are not
// read from a config file or flag.
const (
	// AddressLength is the size in bytes of a sidechain address.
	AddressLength = 20

	// MainAddressLength is the size in bytes of a parent-chain address
	// carried in a withdrawal output.
	MainAddressLength = 20

	// HashLength is the size in bytes of a BLAKE3 hash.
	HashLength = 32

	// MaxOutputsPerTx caps the number of outputs in a single transaction.
	MaxOutputsPerTx = 256

	// MaxCoinbaseOutputs caps the number of coinbase outputs in a block.
	// Equal to MaxOutputsPerTx: the coinbase is sized like any other
	// output list.
	MaxCoinbaseOutputs = 256

	// MaxWithdrawalBundleOutputs caps the number of outputs a single
	// withdrawal bundle submitted to the parent chain may carry.
	MaxWithdrawalBundleOutputs = 6000

	// BlockSizeLimit bounds the serialized size of a sidechain block, in
	// bytes.
	BlockSizeLimit = 2_000_000
)
