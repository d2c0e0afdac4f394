package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-ballot/ballot"
	"github.com/spacemeshos/go-ballot/cmd"
	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/config"
	sdk "github.com/spacemeshos/go-ballot/genvm/sdk/election"
	"github.com/spacemeshos/go-ballot/genvm/templates/election"
)

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}
	defaults := config.DefaultConfig()
	root := &cobra.Command{
		Use:          "ballot",
		Short:        "Run elections with delegated voting",
		Version:      cmd.Version,
		SilenceUsage: true,
	}
	cmd.AddFlags(root.PersistentFlags(), &defaults)
	root.AddCommand(
		a.createCmd(),
		a.enrollCmd(),
		a.delegateCmd(),
		a.voteCmd(),
		a.winnerCmd(),
		a.showCmd(),
		a.listCmd(),
		a.snapshotCmd(),
	)
	return root
}

func parseAddresses(values ...string) ([]types.Address, error) {
	rst := make([]types.Address, 0, len(values))
	for _, value := range values {
		address, err := types.StringToAddress(value)
		if err != nil {
			return nil, fmt.Errorf("parse address %q: %w", value, err)
		}
		rst = append(rst, address)
	}
	return rst, nil
}

func (a *app) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <chairperson> <proposal>...",
		Short: "Create an election and print its address",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			if len(args)-1 > ballot.MaxProposals {
				return fmt.Errorf("%w: %d > %d", ballot.ErrTooManyProposals, len(args)-1, ballot.MaxProposals)
			}
			names := make([]ballot.Name, 0, len(args)-1)
			for _, arg := range args[1:] {
				name, err := ballot.NameFromString(arg)
				if err != nil {
					return err
				}
				names = append(names, name)
			}
			return a.run(c, func(ctx context.Context) error {
				chair, err := types.StringToAddress(args[0])
				if err != nil {
					return fmt.Errorf("parse chairperson: %w", err)
				}
				tx, account := sdk.Spawn(chair, names...)
				if err := a.apply(ctx, tx); err != nil {
					return err
				}
				fmt.Fprintln(c.OutOrStdout(), account)
				return nil
			})
		},
	}
}

func (a *app) enrollCmd() *cobra.Command {
	var votersFile string
	c := &cobra.Command{
		Use:   "enroll <chairperson> <election> [voter]...",
		Short: "Grant voting rights to voters",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return a.run(c, func(ctx context.Context) error {
				addresses, err := parseAddresses(args[:2]...)
				if err != nil {
					return err
				}
				voters, err := parseAddresses(args[2:]...)
				if err != nil {
					return err
				}
				if votersFile != "" {
					fromFile, err := readVoters(a.fs, votersFile)
					if err != nil {
						return err
					}
					voters = append(voters, fromFile...)
				}
				if len(voters) == 0 {
					return fmt.Errorf("no voters to enroll")
				}
				// a single transaction keeps enrollment all-or-nothing
				if len(voters) > election.MaxEnrollBatch {
					return fmt.Errorf("too many voters in one enrollment: %d > %d", len(voters), election.MaxEnrollBatch)
				}
				if err := a.apply(ctx, sdk.Enroll(addresses[0], addresses[1], voters...)); err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "enrolled %d voters\n", len(voters))
				return nil
			})
		},
	}
	c.Flags().StringVar(&votersFile, "voters-file", "", "file with one voter address per line")
	return c
}

func (a *app) delegateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delegate <voter> <election> <to>",
		Short: "Delegate voter's weight to another voter",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			return a.run(c, func(ctx context.Context) error {
				addresses, err := parseAddresses(args...)
				if err != nil {
					return err
				}
				return a.apply(ctx, sdk.Delegate(addresses[0], addresses[1], addresses[2]))
			})
		},
	}
}

func (a *app) voteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <voter> <election> <proposal>",
		Short: "Vote for the proposal with the given index",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			proposal, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("parse proposal index %q: %w", args[2], err)
			}
			return a.run(c, func(ctx context.Context) error {
				addresses, err := parseAddresses(args[:2]...)
				if err != nil {
					return err
				}
				return a.apply(ctx, sdk.Vote(addresses[0], addresses[1], uint32(proposal)))
			})
		},
	}
}

func (a *app) winnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "winner <election>",
		Short: "Print index and name of the winning proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return a.run(c, func(context.Context) error {
				address, err := types.StringToAddress(args[0])
				if err != nil {
					return err
				}
				index, name, err := a.vm.Winner(address)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "%d %s\n", index, name)
				return nil
			})
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <election>",
		Short: "Print chairperson, proposals and vote counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return a.run(c, func(context.Context) error {
				address, err := types.StringToAddress(args[0])
				if err != nil {
					return err
				}
				e, err := a.vm.Election(address)
				if err != nil {
					return err
				}
				out := c.OutOrStdout()
				fmt.Fprintf(out, "chairperson: %s\n", e.Chairperson())
				fmt.Fprintf(out, "voters: %d\n", e.NumVoters())
				for i, proposal := range e.Proposals() {
					fmt.Fprintf(out, "%d %s %d\n", i, proposal.Name, proposal.VoteCount)
				}
				return nil
			})
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print address and chairperson of every election",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.run(c, func(context.Context) error {
				return a.vm.Elections(func(address types.Address, e *ballot.Election) bool {
					fmt.Fprintf(c.OutOrStdout(), "%s %s\n", address, e.Chairperson())
					return true
				})
			})
		},
	}
}

func (a *app) snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <election> <file>",
		Short: "Write encoded election state to the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return a.run(c, func(context.Context) error {
				address, err := types.StringToAddress(args[0])
				if err != nil {
					return err
				}
				e, err := a.vm.Election(address)
				if err != nil {
					return err
				}
				data, err := codec.Encode(e)
				if err != nil {
					return err
				}
				if err := atomic.WriteFile(args[1], bytes.NewReader(data)); err != nil {
					return fmt.Errorf("write snapshot %s: %w", args[1], err)
				}
				a.logger.Info("snapshot written",
					address.Field("election"),
					zap.String("path", args[1]),
					zap.Int("size", len(data)),
				)
				return nil
			})
		},
	}
}
