package ballot

import (
	"fmt"

	"github.com/spacemeshos/go-ballot/common/types"
)

// Delegate transfers caller's weight to the end of the delegation chain that starts at to.
//
// If the last voter in the chain already voted, weight is added to the proposal it voted for.
// Otherwise weight is added to that voter and will be counted once it votes.
func (e *Election) Delegate(caller, to types.Address) error {
	sender := e.voters[caller]
	if sender.Voted {
		return fmt.Errorf("%w: %s", ErrAlreadyVoted, caller)
	}
	if to == caller {
		return fmt.Errorf("%w: %s", ErrSelfDelegation, caller)
	}
	if sender.Weight == 0 {
		return fmt.Errorf("%w: %s", ErrNoVotingRights, caller)
	}
	terminus, err := e.resolve(caller, to)
	if err != nil {
		return err
	}
	delegate := e.voters[terminus]
	if delegate.Weight == 0 {
		return fmt.Errorf("%w: delegate %s", ErrNoVotingRights, terminus)
	}

	sender.Voted = true
	sender.Delegate = &to
	e.voters[caller] = sender
	if delegate.Voted {
		e.proposals[delegate.Vote].VoteCount += sender.Weight
		return nil
	}
	delegate.Weight += sender.Weight
	e.voters[terminus] = delegate
	return nil
}

// resolve follows delegation links from `to` until it finds a voter that didn't delegate.
// Every identity is visited at most once, therefore the walk takes at most len(voters)+1 steps.
func (e *Election) resolve(caller, to types.Address) (types.Address, error) {
	visited := map[types.Address]struct{}{caller: {}}
	current := to
	for {
		if _, exists := visited[current]; exists {
			return types.Address{}, fmt.Errorf("%w: %s -> %s revisits %s",
				ErrDelegationCycle, caller, to, current)
		}
		visited[current] = struct{}{}
		next := e.voters[current].Delegate
		if next == nil {
			return current, nil
		}
		current = *next
	}
}
