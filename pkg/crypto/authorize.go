package crypto

import (
	"errors"

	"github.com/sidechain-labs/bmmd/pkg/types"
)

// ErrNotImplemented is returned by StubAuthorizer: verifying that a
// transaction is authorized to spend its inputs is an out-of-scope
// collaborator for this consensus engine.
var ErrNotImplemented = errors.New("authorization: signature verification not implemented")

// Authorizer checks that spending outpoint in a transaction hashing to
// txHash is authorized by signature/publicKey. Nothing in this module
// calls it outside its own test: utxo.Connect and utxo.Validate enforce
// only the stores' own invariants and make no signature check.
type Authorizer interface {
	Authorize(outpoint types.OutPoint, txHash types.Hash, signature, publicKey []byte) error
}

// StubAuthorizer always fails closed. It exists so callers have a concrete
// Authorizer to wire up without pretending authorization is enforced.
type StubAuthorizer struct{}

// Authorize always returns ErrNotImplemented.
func (StubAuthorizer) Authorize(types.OutPoint, types.Hash, []byte, []byte) error {
	return ErrNotImplemented
}
