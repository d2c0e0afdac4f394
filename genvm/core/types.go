package core

import (
	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-ballot/common/types"
)

type (
	// Address is an alias to types.Address.
	Address = types.Address
	// Account is an alias to types.Account.
	Account = types.Account
)

// MethodSpawn is a method selector that creates a new account from the template.
// Every other selector is interpreted by the template of the targeted account.
const MethodSpawn = 0

// Handler provides set of static templates method that are not directly attached to the state.
type Handler interface {
	// Parse arguments of the method from the payload.
	Parse(method uint8, decoder *scale.Decoder) (scale.Encodable, error)
	// New creates instance of the template from spawn arguments.
	New(principal Address, args scale.Encodable) (Template, error)
	// Load instance of the template from the stored state.
	Load(state []byte) (Template, error)
	// Exec dispatches execution request based on the method selector.
	Exec(ctx *Context, method uint8, args scale.Encodable) error
}

// Template is a concrete Template type initialized with mutable and immutable state.
// Template needs to implement scale.Encodable as state is stored as a blob of bytes.
type Template interface {
	scale.Encodable
}

//go:generate mockgen -package=mocks -destination=./mocks/store.go github.com/spacemeshos/go-ballot/genvm/core AccountStore

// AccountStore loads and updates accounts within a single transaction.
type AccountStore interface {
	// Has returns true if account was spawned.
	Has(Address) (bool, error)
	// Get returns account without template if it wasn't spawned.
	Get(Address) (Account, error)
	Update(Account) error
}
