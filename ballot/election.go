// Package ballot implements a single election with delegated voting.
//
// Election is a deterministic state machine. Every mutating method takes the
// identity of the caller as its first argument; authenticating that identity
// is the responsibility of the host. A method either applies completely or
// returns an error and leaves the election unchanged.
//
// Election is not safe for concurrent use.
package ballot

import (
	"fmt"

	"github.com/spacemeshos/go-ballot/common/types"
)

//go:generate scalegen -types Voter,Proposal

// MaxProposals is a limit on the number of proposals in the election.
const MaxProposals = 256

// Voter is a state of a single identity in the election.
type Voter struct {
	// Weight is own weight plus weight delegated to this voter.
	Weight uint64
	// Voted is set once voter voted directly or delegated. Never reset.
	Voted bool
	// Vote is an index of the proposal. Meaningful only when voted directly.
	Vote uint32
	// Delegate is set only when voter delegated.
	Delegate *types.Address
}

// Proposal is a single option in the election.
type Proposal struct {
	Name      Name
	VoteCount uint64
}

// Election holds chairperson, voters registry and proposals.
type Election struct {
	chairperson types.Address
	voters      map[types.Address]Voter
	proposals   []Proposal
}

// New creates election with a proposal for every name and enrolls chairperson.
func New(chairperson types.Address, names []Name) (*Election, error) {
	if len(names) == 0 {
		return nil, ErrNoProposals
	}
	if len(names) > MaxProposals {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyProposals, len(names), MaxProposals)
	}
	e := &Election{
		chairperson: chairperson,
		voters:      map[types.Address]Voter{chairperson: {Weight: 1}},
		proposals:   make([]Proposal, len(names)),
	}
	for i, name := range names {
		e.proposals[i].Name = name
	}
	return e, nil
}

// Chairperson returns identity allowed to enroll voters.
func (e *Election) Chairperson() types.Address {
	return e.chairperson
}

// Voter returns a copy of the voter state. Unknown identity has zero state.
func (e *Election) Voter(address types.Address) Voter {
	voter := e.voters[address]
	if voter.Delegate != nil {
		delegate := *voter.Delegate
		voter.Delegate = &delegate
	}
	return voter
}

// NumVoters returns the number of identities known to the election.
func (e *Election) NumVoters() int {
	return len(e.voters)
}

// Proposals returns a copy of proposals in the creation order.
func (e *Election) Proposals() []Proposal {
	return append([]Proposal(nil), e.proposals...)
}

// Proposal returns proposal at index i.
func (e *Election) Proposal(i uint32) (Proposal, error) {
	if uint64(i) >= uint64(len(e.proposals)) {
		return Proposal{}, fmt.Errorf("%w: %d out of %d", ErrInvalidProposal, i, len(e.proposals))
	}
	return e.proposals[i], nil
}

// Enroll grants voting rights to every target. Only chairperson can enroll.
// If any target can't be enrolled, none of them is.
func (e *Election) Enroll(caller types.Address, targets []types.Address) error {
	if caller != e.chairperson {
		return fmt.Errorf("%w: %s is not the chairperson", ErrNotAuthorized, caller)
	}
	seen := make(map[types.Address]struct{}, len(targets))
	for i, target := range targets {
		voter := e.voters[target]
		if voter.Voted {
			return fmt.Errorf("%w: target %d (%s)", ErrAlreadyVoted, i, target)
		}
		if _, exists := seen[target]; exists || voter.Weight != 0 {
			return fmt.Errorf("%w: target %d (%s)", ErrAlreadyEnrolled, i, target)
		}
		seen[target] = struct{}{}
	}
	for _, target := range targets {
		voter := e.voters[target]
		voter.Weight = 1
		e.voters[target] = voter
	}
	return nil
}

// Vote adds caller's weight to the proposal.
func (e *Election) Vote(caller types.Address, proposal uint32) error {
	voter := e.voters[caller]
	if voter.Weight == 0 {
		return fmt.Errorf("%w: %s", ErrNoVotingRights, caller)
	}
	if voter.Voted {
		return fmt.Errorf("%w: %s", ErrAlreadyVoted, caller)
	}
	if uint64(proposal) >= uint64(len(e.proposals)) {
		return fmt.Errorf("%w: %d out of %d", ErrInvalidProposal, proposal, len(e.proposals))
	}
	voter.Voted = true
	voter.Vote = proposal
	e.voters[caller] = voter
	e.proposals[proposal].VoteCount += voter.Weight
	return nil
}
