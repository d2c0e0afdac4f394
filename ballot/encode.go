package ballot

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-ballot/common/types"
)

// MaxVoters is a limit on the number of identities in the encoded election.
const MaxVoters = 1 << 20

// entry is a voter with its identity, election stores voters sorted by identity
// so that encoding of the same election is always the same.
type entry struct {
	Address types.Address
	Voter   Voter
}

func (t *entry) EncodeScale(enc *scale.Encoder) (total int, err error) {
	n, err := scale.EncodeByteArray(enc, t.Address[:])
	if err != nil {
		return total, err
	}
	total += n
	n, err = t.Voter.EncodeScale(enc)
	if err != nil {
		return total, err
	}
	return total + n, nil
}

func (t *entry) DecodeScale(dec *scale.Decoder) (total int, err error) {
	n, err := scale.DecodeByteArray(dec, t.Address[:])
	if err != nil {
		return total, err
	}
	total += n
	n, err = t.Voter.DecodeScale(dec)
	if err != nil {
		return total, err
	}
	return total + n, nil
}

// EncodeScale implements scale codec interface.
func (e *Election) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, e.chairperson[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStructSliceWithLimit(enc, e.proposals, MaxProposals)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		entries := make([]entry, 0, len(e.voters))
		for address, voter := range e.voters {
			entries = append(entries, entry{Address: address, Voter: voter})
		}
		slices.SortFunc(entries, func(a, b entry) int {
			return bytes.Compare(a.Address[:], b.Address[:])
		})
		n, err := scale.EncodeStructSliceWithLimit(enc, entries, MaxVoters)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (e *Election) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := scale.DecodeByteArray(dec, e.chairperson[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		proposals, n, err := scale.DecodeStructSliceWithLimit[Proposal](dec, MaxProposals)
		if err != nil {
			return total, err
		}
		total += n
		if len(proposals) == 0 {
			return total, ErrNoProposals
		}
		e.proposals = proposals
	}
	{
		entries, n, err := scale.DecodeStructSliceWithLimit[entry](dec, MaxVoters)
		if err != nil {
			return total, err
		}
		total += n
		e.voters = make(map[types.Address]Voter, len(entries))
		for i := range entries {
			voter := entries[i].Voter
			if voter.Voted && voter.Delegate == nil && uint64(voter.Vote) >= uint64(len(e.proposals)) {
				return total, fmt.Errorf("%w: voter %s voted for %d out of %d",
					ErrInvalidProposal, entries[i].Address, voter.Vote, len(e.proposals))
			}
			e.voters[entries[i].Address] = voter
		}
	}
	return total, nil
}
