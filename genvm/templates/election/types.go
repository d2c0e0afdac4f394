package election

import (
	"github.com/spacemeshos/go-ballot/ballot"
	"github.com/spacemeshos/go-ballot/common/types"
)

//go:generate scalegen

// SpawnArguments contains labels of the proposals in the order they will be indexed.
type SpawnArguments struct {
	Proposals []ballot.Name `scale:"max=256"` // update ballot.MaxProposals if it changes.
}

// EnrollArguments contains identities that will receive voting rights.
type EnrollArguments struct {
	Voters []types.Address `scale:"max=1024"` // update MaxEnrollBatch if it changes.
}

// DelegateArguments contains identity that will receive principal's weight.
type DelegateArguments struct {
	To types.Address
}

// VoteArguments contains index of the proposal.
type VoteArguments struct {
	Proposal uint32
}
