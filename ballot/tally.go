package ballot

// WinningProposal returns index of the proposal with the largest vote count.
// Ties resolve to the lowest index; if nobody voted it is 0.
func (e *Election) WinningProposal() uint32 {
	var (
		winner uint32
		best   uint64
	)
	for i, proposal := range e.proposals {
		if proposal.VoteCount > best {
			best = proposal.VoteCount
			winner = uint32(i)
		}
	}
	return winner
}

// WinnerName returns name of the winning proposal.
func (e *Election) WinnerName() Name {
	return e.proposals[e.WinningProposal()].Name
}
