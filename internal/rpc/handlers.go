package rpc

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sidechain-labs/bmmd/internal/state"
	"github.com/sidechain-labs/bmmd/pkg/types"
)

// mapError translates a coordinator error into a JSON-RPC error, using
// CodeInvalidParams for caller mistakes (bad transactions/blocks/heights,
// a pending bundle), CodeNotFound for ErrNotInMempool, and
// CodeInternalError for everything else.
func mapError(err error) *Error {
	switch {
	case errors.Is(err, state.ErrInvalidTransaction),
		errors.Is(err, state.ErrInvalidBlock),
		errors.Is(err, state.ErrOutputLimit),
		errors.Is(err, state.ErrNotBmmCommitted),
		errors.Is(err, state.ErrWrongPrev),
		errors.Is(err, state.ErrInvalidMainHeight),
		errors.Is(err, state.ErrBundlePending):
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	case errors.Is(err, state.ErrNotInMempool):
		return &Error{Code: CodeNotFound, Message: err.Error()}
	default:
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}
}

func (s *Server) handleTxSubmit(req *Request) (interface{}, *Error) {
	var params TxSubmitParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	transaction, err := decodeTransactionHex(params.Transaction)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid transaction: %v", err)}
	}

	if err := s.coord.SubmitTransaction(transaction); err != nil {
		return nil, mapError(err)
	}
	return &TxSubmitResult{Hash: transaction.Hash().String()}, nil
}

func (s *Server) handleBlockSubmit(req *Request) (interface{}, *Error) {
	var params BlockSubmitParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	header, coinbase, txs, err := decodeBlockHex(params.Block)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid block: %v", err)}
	}

	if err := s.coord.Connect(header, coinbase, txs); err != nil {
		return nil, mapError(err)
	}
	return struct{}{}, nil
}

func (s *Server) handleBlockDisconnect(req *Request) (interface{}, *Error) {
	var params BlockDisconnectParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Count == 0 {
		params.Count = 1
	}
	if err := s.coord.Disconnect(params.Count); err != nil {
		return nil, mapError(err)
	}
	return struct{}{}, nil
}

func (s *Server) handleMempoolCollect(req *Request) (interface{}, *Error) {
	txs, err := s.coord.CollectTransactions(s.blockSizeLimit)
	if err != nil {
		return nil, mapError(err)
	}
	return &CollectTransactionsResult{Transactions: hex.EncodeToString(encodeTransactionList(txs))}, nil
}

func (s *Server) handleChainGetTip(req *Request) (interface{}, *Error) {
	blockNumber, hash, ok, err := s.coord.GetChainTip()
	if err != nil {
		return nil, mapError(err)
	}
	if !ok {
		return &ChainTipResult{Empty: true}, nil
	}
	return &ChainTipResult{BlockHeight: blockNumber, BlockHash: hash.String()}, nil
}

func (s *Server) handleUtxoGetSet(req *Request) (interface{}, *Error) {
	set, err := s.coord.GetUtxoSet()
	if err != nil {
		return nil, mapError(err)
	}
	return &UtxoSetResult{UtxoSet: hex.EncodeToString(encodeUtxoSet(set))}, nil
}

func (s *Server) handleMainchainConnect(req *Request) (interface{}, *Error) {
	var params MainBlockParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	mainBlock, decErr := params.toMainBlock()
	if decErr != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: decErr.Error()}
	}

	if err := s.coord.ConnectMainBlock(mainBlock); err != nil {
		return nil, mapError(err)
	}
	return struct{}{}, nil
}

func (s *Server) handleMainchainDisconnect(req *Request) (interface{}, *Error) {
	var params MainBlockDisconnectParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	tip, err := types.HexToHash(params.PreviousTip)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	if err := s.coord.DisconnectMainBlock(params.PreviousHeight, tip); err != nil {
		return nil, mapError(err)
	}
	return struct{}{}, nil
}
