package rpc

import (
	"encoding/hex"
	"fmt"

	"github.com/sidechain-labs/bmmd/internal/state"
	"github.com/sidechain-labs/bmmd/pkg/block"
	txpkg "github.com/sidechain-labs/bmmd/pkg/tx"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param / result types ────────────────────────────────────────────────
// Transaction and block payloads travel as hex strings of the domain's
// canonical binary encoding; everything else travels as plain JSON.

// TxSubmitParam is used by tx_submit.
type TxSubmitParam struct {
	Transaction string `json:"transaction"`
}

// TxSubmitResult is returned by tx_submit.
type TxSubmitResult struct {
	Hash string `json:"hash"`
}

// BlockSubmitParam is used by block_submit.
type BlockSubmitParam struct {
	Block string `json:"block"`
}

// ChainTipResult is returned by chain_getTip.
type ChainTipResult struct {
	BlockHeight uint32 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
	Empty       bool   `json:"empty"`
}

// UtxoSetResult is returned by utxo_getSet.
type UtxoSetResult struct {
	UtxoSet string `json:"utxo_set"`
}

// CollectTransactionsResult is returned by mempool_collect.
type CollectTransactionsResult struct {
	Transactions string `json:"transactions"`
}

// depositParam mirrors a MainBlock's deposit entries over JSON.
type depositParam struct {
	SequenceNumber uint64 `json:"sequence_number"`
	Address        string `json:"address"`
	Value          uint64 `json:"value"`
}

// MainBlockParam is used by mainchain_connect.
type MainBlockParam struct {
	BlockHeight           uint32         `json:"block_height"`
	BlockHash             string         `json:"block_hash"`
	Deposits              []depositParam `json:"deposits"`
	WithdrawalBundleEvent *struct {
		Type string `json:"type"`
		M6ID string `json:"m6id"`
	} `json:"withdrawal_bundle_event"`
	BmmHashes []string `json:"bmm_hashes"`
}

// toMainBlock decodes a MainBlockParam into its state.MainBlock form.
func (p *MainBlockParam) toMainBlock() (*state.MainBlock, error) {
	hash, err := types.HexToHash(p.BlockHash)
	if err != nil {
		return nil, fmt.Errorf("invalid block_hash: %w", err)
	}

	deposits := make([]state.Deposit, len(p.Deposits))
	for i, d := range p.Deposits {
		addr, err := types.HexToAddress(d.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid deposit address: %w", err)
		}
		deposits[i] = state.Deposit{SequenceNumber: d.SequenceNumber, Address: addr, Value: d.Value}
	}

	bmmHashes := make([]types.Hash, len(p.BmmHashes))
	for i, h := range p.BmmHashes {
		bmmHashes[i], err = types.HexToHash(h)
		if err != nil {
			return nil, fmt.Errorf("invalid bmm hash: %w", err)
		}
	}

	var event *state.WithdrawalBundleEvent
	if p.WithdrawalBundleEvent != nil {
		m6id, err := types.HexToHash(p.WithdrawalBundleEvent.M6ID)
		if err != nil {
			return nil, fmt.Errorf("invalid m6id: %w", err)
		}
		var eventType state.WithdrawalEventType
		switch p.WithdrawalBundleEvent.Type {
		case "Submitted":
			eventType = state.WithdrawalSubmitted
		case "Succeeded":
			eventType = state.WithdrawalSucceeded
		case "Failed":
			eventType = state.WithdrawalFailed
		default:
			return nil, fmt.Errorf("unknown withdrawal bundle event type %q", p.WithdrawalBundleEvent.Type)
		}
		event = &state.WithdrawalBundleEvent{Type: eventType, M6ID: m6id}
	}

	return &state.MainBlock{
		BlockHeight:           p.BlockHeight,
		BlockHash:             hash,
		Deposits:              deposits,
		WithdrawalBundleEvent: event,
		BmmHashes:             bmmHashes,
	}, nil
}

// MainBlockDisconnectParam is used by mainchain_disconnect.
type MainBlockDisconnectParam struct {
	PreviousHeight uint32 `json:"previous_height"`
	PreviousTip    string `json:"previous_tip"`
}

// BlockDisconnectParam is used by block_disconnect.
type BlockDisconnectParam struct {
	Count uint32 `json:"count"`
}

// decodeTransactionHex decodes a hex-encoded canonical transaction.
func decodeTransactionHex(s string) (*txpkg.Transaction, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return txpkg.DecodeBytes(raw)
}

// decodeBlockHex decodes a hex-encoded canonical (Header, coinbase, txs)
// submission, per encodeBlockSubmission's layout.
func decodeBlockHex(s string) (*block.Header, []types.Output, []txpkg.Transaction, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid hex: %w", err)
	}
	return decodeBlockSubmission(raw)
}
