package core

import (
	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/hash"
)

// Context serves as an interface between the template and the vm.
type Context struct {
	// Principal is an authenticated identity of the caller.
	Principal Address
	// Account is the account targeted by the transaction.
	Account Account
	// Template is an instance decoded from the account state.
	Template Template
}

// ComputeAddress computes address of the account spawned from template by principal.
// The same principal can spawn several accounts from the same template as long as arguments differ.
func ComputeAddress(template, principal Address, args scale.Encodable) Address {
	sum := hash.Sum(template[:], principal[:], codec.MustEncode(args))
	return types.GenerateAddress(sum[:])
}
