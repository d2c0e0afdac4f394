package election

import (
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-ballot/ballot"
	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/genvm/core"
	"github.com/spacemeshos/go-ballot/genvm/registry"
)

const (
	// MethodEnroll grants voting rights, allowed only for the chairperson.
	MethodEnroll = 1
	// MethodDelegate delegates principal's weight.
	MethodDelegate = 2
	// MethodVote votes for the proposal.
	MethodVote = 3

	// MaxEnrollBatch is a limit of voters that can be enrolled in a single transaction.
	MaxEnrollBatch = 1024
)

func init() {
	TemplateAddress[len(TemplateAddress)-1] = 1
}

// Register template.
func Register(registry *registry.Registry) {
	registry.Register(TemplateAddress, &handler{})
}

var (
	_ (core.Handler) = (*handler)(nil)
	// TemplateAddress is an address of the election template.
	TemplateAddress core.Address
)

type handler struct{}

// Parse arguments of the method.
func (*handler) Parse(method uint8, decoder *scale.Decoder) (args scale.Encodable, err error) {
	var decodable interface {
		scale.Encodable
		scale.Decodable
	}
	switch method {
	case core.MethodSpawn:
		decodable = &SpawnArguments{}
	case MethodEnroll:
		decodable = &EnrollArguments{}
	case MethodDelegate:
		decodable = &DelegateArguments{}
	case MethodVote:
		decodable = &VoteArguments{}
	default:
		return nil, fmt.Errorf("%w: unknown method %d", core.ErrMalformed, method)
	}
	if _, err := decodable.DecodeScale(decoder); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformed, err)
	}
	return decodable, nil
}

// New election with principal as a chairperson.
func (*handler) New(principal core.Address, args scale.Encodable) (core.Template, error) {
	return ballot.New(principal, args.(*SpawnArguments).Proposals)
}

// Load election from the stored state.
func (*handler) Load(state []byte) (core.Template, error) {
	var election ballot.Election
	if err := codec.Decode(state, &election); err != nil {
		return nil, fmt.Errorf("%w: malformed state %w", core.ErrInternal, err)
	}
	return &election, nil
}

// Exec enroll, delegate or vote based on the method selector.
func (*handler) Exec(ctx *core.Context, method uint8, args scale.Encodable) error {
	election := ctx.Template.(*ballot.Election)
	switch method {
	case MethodEnroll:
		return election.Enroll(ctx.Principal, args.(*EnrollArguments).Voters)
	case MethodDelegate:
		return election.Delegate(ctx.Principal, args.(*DelegateArguments).To)
	case MethodVote:
		return election.Vote(ctx.Principal, args.(*VoteArguments).Proposal)
	default:
		return fmt.Errorf("%w: unknown method %d", core.ErrMalformed, method)
	}
}
