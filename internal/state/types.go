// Package state is the coordinator that wraps the UTXO set, block
// archive, and mempool behind a single shared key-value environment: every
// externally-visible operation runs inside one write transaction spanning
// all three stores, so a partial failure in one never leaves the others
// out of sync.
package state

import "github.com/sidechain-labs/bmmd/pkg/types"

// WithdrawalEventType is the parent chain's verdict on a submitted
// withdrawal bundle.
type WithdrawalEventType int

const (
	WithdrawalSubmitted WithdrawalEventType = iota
	WithdrawalSucceeded
	WithdrawalFailed
)

// WithdrawalBundleEvent reports a parent-chain-observed change in a
// withdrawal bundle's status, identified by its M6ID.
type WithdrawalBundleEvent struct {
	Type WithdrawalEventType
	M6ID types.Hash
}

// Deposit is a parent-chain event crediting value to a sidechain address.
type Deposit struct {
	SequenceNumber uint64
	Address        types.Address
	Value          uint64
}

// MainBlock is a single parent-chain block's worth of sidechain-relevant
// events: the deposits it carries, at most one withdrawal-bundle status
// change, and the set of sidechain header hashes it BMM-commits to.
type MainBlock struct {
	BlockHeight           uint32
	BlockHash             types.Hash
	Deposits              []Deposit
	WithdrawalBundleEvent *WithdrawalBundleEvent
	BmmHashes             []types.Hash
}
