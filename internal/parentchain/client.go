// Package parentchain adapts the parent chain's enforcer RPC into the
// event stream the state coordinator consumes: deposits, the parent
// chain's own height/tip, and BMM-bearing MainBlock events.
package parentchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sidechain-labs/bmmd/internal/state"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// Client is the parent-chain collaborator the coordinator's poller talks
// to. A production Client is an RPCClient hitting the enforcer node; tests
// use a fake.
type Client interface {
	GetDeposits(ctx context.Context, sidechainNumber uint32) ([]state.Deposit, error)
	GetMainBlockHeight(ctx context.Context) (uint32, error)
	GetMainChainTip(ctx context.Context) (types.Hash, error)
	// GetMainBlocks returns every MainBlock from fromHeight (inclusive)
	// through the parent chain's current tip, in ascending height order.
	GetMainBlocks(ctx context.Context, fromHeight uint32) ([]state.MainBlock, error)
}

// RPCClient is a JSON-RPC 2.0 Client against the parent chain's enforcer
// endpoint.
type RPCClient struct {
	endpoint string
	http     *http.Client
}

// NewRPCClient creates a Client targeting the given enforcer RPC endpoint.
func NewRPCClient(endpoint string) *RPCClient {
	return &RPCClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the enforcer responds with a JSON-RPC error.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("parentchain: rpc error %d: %s", e.Code, e.Message)
}

func (c *RPCClient) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("parentchain: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parentchain: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("parentchain: http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("parentchain: read response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("parentchain: decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return &RPCError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("parentchain: decode result: %w", err)
		}
	}
	return nil
}

type depositWire struct {
	SequenceNumber uint64 `json:"sequence_number"`
	Address        string `json:"address"`
	Value          uint64 `json:"value"`
}

func (c *RPCClient) GetDeposits(ctx context.Context, sidechainNumber uint32) ([]state.Deposit, error) {
	var wire []depositWire
	if err := c.call(ctx, "get_deposits", []interface{}{sidechainNumber}, &wire); err != nil {
		return nil, err
	}
	deposits := make([]state.Deposit, len(wire))
	for i, w := range wire {
		addr, err := types.HexToAddress(w.Address)
		if err != nil {
			return nil, fmt.Errorf("parentchain: decode deposit address: %w", err)
		}
		deposits[i] = state.Deposit{SequenceNumber: w.SequenceNumber, Address: addr, Value: w.Value}
	}
	return deposits, nil
}

func (c *RPCClient) GetMainBlockHeight(ctx context.Context) (uint32, error) {
	var height uint32
	err := c.call(ctx, "get_main_block_height", nil, &height)
	return height, err
}

func (c *RPCClient) GetMainChainTip(ctx context.Context) (types.Hash, error) {
	var hex string
	if err := c.call(ctx, "get_main_chain_tip", nil, &hex); err != nil {
		return types.Hash{}, err
	}
	return types.HexToHash(hex)
}

type mainBlockWire struct {
	BlockHeight           uint32        `json:"block_height"`
	BlockHash             string        `json:"block_hash"`
	Deposits              []depositWire `json:"deposits"`
	WithdrawalBundleEvent *struct {
		Type string `json:"type"`
		M6ID string `json:"m6id"`
	} `json:"withdrawal_bundle_event"`
	BmmHashes []string `json:"bmm_hashes"`
}

func (c *RPCClient) GetMainBlocks(ctx context.Context, fromHeight uint32) ([]state.MainBlock, error) {
	var wire []mainBlockWire
	if err := c.call(ctx, "get_main_blocks", []interface{}{fromHeight}, &wire); err != nil {
		return nil, err
	}
	blocks := make([]state.MainBlock, len(wire))
	for i, w := range wire {
		mb, err := decodeMainBlock(w)
		if err != nil {
			return nil, err
		}
		blocks[i] = mb
	}
	return blocks, nil
}

func decodeMainBlock(w mainBlockWire) (state.MainBlock, error) {
	hash, err := types.HexToHash(w.BlockHash)
	if err != nil {
		return state.MainBlock{}, fmt.Errorf("parentchain: decode block hash: %w", err)
	}

	deposits := make([]state.Deposit, len(w.Deposits))
	for i, d := range w.Deposits {
		addr, err := types.HexToAddress(d.Address)
		if err != nil {
			return state.MainBlock{}, fmt.Errorf("parentchain: decode deposit address: %w", err)
		}
		deposits[i] = state.Deposit{SequenceNumber: d.SequenceNumber, Address: addr, Value: d.Value}
	}

	bmmHashes := make([]types.Hash, len(w.BmmHashes))
	for i, h := range w.BmmHashes {
		bmmHashes[i], err = types.HexToHash(h)
		if err != nil {
			return state.MainBlock{}, fmt.Errorf("parentchain: decode bmm hash: %w", err)
		}
	}

	var event *state.WithdrawalBundleEvent
	if w.WithdrawalBundleEvent != nil {
		m6id, err := types.HexToHash(w.WithdrawalBundleEvent.M6ID)
		if err != nil {
			return state.MainBlock{}, fmt.Errorf("parentchain: decode m6id: %w", err)
		}
		eventType, err := parseWithdrawalEventType(w.WithdrawalBundleEvent.Type)
		if err != nil {
			return state.MainBlock{}, err
		}
		event = &state.WithdrawalBundleEvent{Type: eventType, M6ID: m6id}
	}

	return state.MainBlock{
		BlockHeight:           w.BlockHeight,
		BlockHash:             hash,
		Deposits:              deposits,
		WithdrawalBundleEvent: event,
		BmmHashes:             bmmHashes,
	}, nil
}

func parseWithdrawalEventType(s string) (state.WithdrawalEventType, error) {
	switch s {
	case "Submitted":
		return state.WithdrawalSubmitted, nil
	case "Succeeded":
		return state.WithdrawalSucceeded, nil
	case "Failed":
		return state.WithdrawalFailed, nil
	default:
		return 0, fmt.Errorf("parentchain: unknown withdrawal bundle event type %q", s)
	}
}
