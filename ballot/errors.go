package ballot

import "errors"

var (
	// ErrNotAuthorized is returned when anyone but the chairperson enrolls voters.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrAlreadyEnrolled is returned when enrolled voter is enrolled again.
	ErrAlreadyEnrolled = errors.New("already enrolled")
	// ErrAlreadyVoted is returned when voter that voted or delegated tries to vote, delegate
	// or to be enrolled.
	ErrAlreadyVoted = errors.New("already voted")
	// ErrSelfDelegation is returned when voter delegates to itself.
	ErrSelfDelegation = errors.New("self delegation is disallowed")
	// ErrDelegationCycle is returned when delegation chain visits the same voter twice.
	ErrDelegationCycle = errors.New("delegation cycle detected")
	// ErrNoVotingRights is returned when voter with zero weight votes or delegates,
	// and when delegation chain ends at a voter with zero weight.
	ErrNoVotingRights = errors.New("no voting rights")
	// ErrInvalidProposal is returned when vote references proposal that doesn't exist.
	ErrInvalidProposal = errors.New("invalid proposal")

	// ErrNoProposals is returned when election is created without proposals.
	ErrNoProposals = errors.New("no proposals")
	// ErrTooManyProposals is returned when election is created with more than MaxProposals.
	ErrTooManyProposals = errors.New("too many proposals")
)
