package election

import (
	"github.com/spacemeshos/go-ballot/ballot"
	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/genvm/core"
	"github.com/spacemeshos/go-ballot/genvm/templates/election"
)

// Spawn creates transaction that spawns an election with principal as a chairperson.
// Returns transaction and address of the election account.
func Spawn(principal types.Address, proposals ...ballot.Name) (types.Transaction, types.Address) {
	args := election.SpawnArguments{Proposals: proposals}
	return types.Transaction{
		Principal: principal,
		Target:    election.TemplateAddress,
		Method:    core.MethodSpawn,
		Payload:   codec.MustEncode(&args),
	}, core.ComputeAddress(election.TemplateAddress, principal, &args)
}

// Enroll creates transaction that grants voting rights to voters.
func Enroll(principal, account types.Address, voters ...types.Address) types.Transaction {
	args := election.EnrollArguments{Voters: voters}
	return types.Transaction{
		Principal: principal,
		Target:    account,
		Method:    election.MethodEnroll,
		Payload:   codec.MustEncode(&args),
	}
}

// Delegate creates transaction that delegates principal's weight to another voter.
func Delegate(principal, account, to types.Address) types.Transaction {
	args := election.DelegateArguments{To: to}
	return types.Transaction{
		Principal: principal,
		Target:    account,
		Method:    election.MethodDelegate,
		Payload:   codec.MustEncode(&args),
	}
}

// Vote creates transaction that votes for the proposal.
func Vote(principal, account types.Address, proposal uint32) types.Transaction {
	args := election.VoteArguments{Proposal: proposal}
	return types.Transaction{
		Principal: principal,
		Target:    account,
		Method:    election.MethodVote,
		Payload:   codec.MustEncode(&args),
	}
}
