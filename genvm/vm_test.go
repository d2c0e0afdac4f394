package vm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-ballot/ballot"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/genvm/core"
	sdk "github.com/spacemeshos/go-ballot/genvm/sdk/election"
	"github.com/spacemeshos/go-ballot/genvm/templates/election"
	"github.com/spacemeshos/go-ballot/log/logtest"
	"github.com/spacemeshos/go-ballot/sql"
	"github.com/spacemeshos/go-ballot/sql/accounts"
)

func names(tb testing.TB, values ...string) []ballot.Name {
	tb.Helper()
	rst := make([]ballot.Name, 0, len(values))
	for _, value := range values {
		name, err := ballot.NameFromString(value)
		require.NoError(tb, err)
		rst = append(rst, name)
	}
	return rst
}

type tester struct {
	testing.TB
	*VM
	db *sql.Database
}

func newTester(tb testing.TB) *tester {
	db := sql.InMemory()
	tb.Cleanup(func() { require.NoError(tb, db.Close()) })
	return &tester{
		TB: tb,
		VM: New(db, WithLogger(logtest.New(tb))),
		db: db,
	}
}

func (t *tester) apply(txs ...types.Transaction) []types.TransactionResult {
	t.Helper()
	results, err := t.Apply(context.Background(), txs)
	require.NoError(t, err)
	require.Len(t, results, len(txs))
	return results
}

func (t *tester) election(address types.Address) *ballot.Election {
	t.Helper()
	e, err := t.Election(address)
	require.NoError(t, err)
	return e
}

func requireStatus(tb testing.TB, expected types.TransactionStatus, result types.TransactionResult) {
	tb.Helper()
	require.Equal(tb, expected, result.Status, "message: %s", result.Message)
}

func TestElectionFlow(t *testing.T) {
	tt := newTester(t)
	var (
		chair = types.GenerateAddress([]byte("chair"))
		alice = types.GenerateAddress([]byte("alice"))
		bob   = types.GenerateAddress([]byte("bob"))
		carol = types.GenerateAddress([]byte("carol"))
	)
	spawn, account := sdk.Spawn(chair, names(t, "a", "b", "c")...)
	results := tt.apply(
		spawn,
		sdk.Enroll(chair, account, alice, bob, carol),
		sdk.Delegate(alice, account, bob),
		sdk.Vote(bob, account, 1),
		sdk.Vote(carol, account, 2),
		sdk.Vote(chair, account, 1),
	)
	for _, result := range results {
		requireStatus(t, types.TransactionSuccess, result)
		require.Equal(t, account, result.Account)
	}

	e := tt.election(account)
	require.Equal(t, chair, e.Chairperson())
	require.Equal(t, 4, e.NumVoters())
	counts := []uint64{}
	for _, proposal := range e.Proposals() {
		counts = append(counts, proposal.VoteCount)
	}
	require.Equal(t, []uint64{0, 3, 1}, counts)

	index, name, err := tt.Winner(account)
	require.NoError(t, err)
	require.EqualValues(t, 1, index)
	require.Equal(t, "b", name.String())

	acc, err := tt.Account(account)
	require.NoError(t, err)
	require.EqualValues(t, len(results), acc.Revision)
}

func TestRejectedTransactionDoesntChangeState(t *testing.T) {
	tt := newTester(t)
	var (
		chair = types.GenerateAddress([]byte("chair"))
		alice = types.GenerateAddress([]byte("alice"))
		bob   = types.GenerateAddress([]byte("bob"))
	)
	spawn, account := sdk.Spawn(chair, names(t, "a", "b")...)
	tt.apply(spawn, sdk.Enroll(chair, account, alice, bob))
	before, err := accounts.Get(tt.db, account)
	require.NoError(t, err)

	for _, tc := range []struct {
		desc string
		tx   types.Transaction
		err  error
	}{
		{"not authorized", sdk.Enroll(alice, account, types.GenerateAddress([]byte("dave"))), ballot.ErrNotAuthorized},
		{"already enrolled", sdk.Enroll(chair, account, bob), ballot.ErrAlreadyEnrolled},
		{"self delegation", sdk.Delegate(alice, account, alice), ballot.ErrSelfDelegation},
		{"invalid proposal", sdk.Vote(alice, account, 2), ballot.ErrInvalidProposal},
		{"no rights", sdk.Vote(types.GenerateAddress([]byte("dave")), account, 0), ballot.ErrNoVotingRights},
	} {
		results := tt.apply(tc.tx)
		requireStatus(t, types.TransactionFailure, results[0])
		require.Contains(t, results[0].Message, tc.err.Error(), tc.desc)
	}

	after, err := accounts.Get(tt.db, account)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestDelegationCycleRejected(t *testing.T) {
	tt := newTester(t)
	var (
		chair = types.GenerateAddress([]byte("chair"))
		alice = types.GenerateAddress([]byte("alice"))
		bob   = types.GenerateAddress([]byte("bob"))
		carol = types.GenerateAddress([]byte("carol"))
	)
	spawn, account := sdk.Spawn(chair, names(t, "a")...)
	results := tt.apply(
		spawn,
		sdk.Enroll(chair, account, alice, bob, carol),
		sdk.Delegate(alice, account, bob),
		sdk.Delegate(bob, account, carol),
		sdk.Delegate(carol, account, alice),
	)
	requireStatus(t, types.TransactionSuccess, results[3])
	requireStatus(t, types.TransactionFailure, results[4])
	require.Contains(t, results[4].Message, ballot.ErrDelegationCycle.Error())

	e := tt.election(account)
	require.Equal(t, uint64(3), e.Voter(carol).Weight)
	require.False(t, e.Voter(carol).Voted)
}

func TestInvalidTransactions(t *testing.T) {
	tt := newTester(t)
	chair := types.GenerateAddress([]byte("chair"))
	spawn, account := sdk.Spawn(chair, names(t, "a")...)
	tt.apply(spawn)

	unknown := spawn
	unknown.Target = types.GenerateAddress([]byte("unknown template"))

	trailing := sdk.Vote(chair, account, 0)
	trailing.Payload = append(trailing.Payload, 1)

	method := sdk.Vote(chair, account, 0)
	method.Method = 100

	notSpawned := sdk.Vote(chair, types.GenerateAddress([]byte("nothing")), 0)

	empty := spawn
	empty.Payload = nil

	for _, tc := range []struct {
		desc string
		tx   types.Transaction
		err  error
	}{
		{"unknown template", unknown, core.ErrUnknownTemplate},
		{"trailing bytes", trailing, core.ErrMalformed},
		{"unknown method", method, core.ErrMalformed},
		{"not spawned", notSpawned, core.ErrNotSpawned},
		{"empty payload", empty, core.ErrMalformed},
	} {
		results := tt.apply(tc.tx)
		require.Equal(t, types.TransactionInvalid, results[0].Status, tc.desc)
		require.Contains(t, results[0].Message, tc.err.Error(), tc.desc)
	}
	require.False(t, tt.election(account).Voter(chair).Voted)
}

func TestSpawnTwice(t *testing.T) {
	tt := newTester(t)
	chair := types.GenerateAddress([]byte("chair"))
	spawn, account := sdk.Spawn(chair, names(t, "a", "b")...)
	other, otherAccount := sdk.Spawn(chair, names(t, "b", "a")...)
	require.NotEqual(t, account, otherAccount)

	results := tt.apply(spawn, spawn, other)
	requireStatus(t, types.TransactionSuccess, results[0])
	requireStatus(t, types.TransactionFailure, results[1])
	require.Contains(t, results[1].Message, core.ErrSpawned.Error())
	requireStatus(t, types.TransactionSuccess, results[2])

	empty, _ := sdk.Spawn(chair)
	results = tt.apply(empty)
	requireStatus(t, types.TransactionFailure, results[0])
	require.Contains(t, results[0].Message, ballot.ErrNoProposals.Error())

	var found []types.Address
	require.NoError(t, tt.Elections(func(address types.Address, e *ballot.Election) bool {
		require.Equal(t, chair, e.Chairperson())
		found = append(found, address)
		return true
	}))
	require.ElementsMatch(t, []types.Address{account, otherAccount}, found)
}

func TestResultsRecorded(t *testing.T) {
	tt := newTester(t)
	chair := types.GenerateAddress([]byte("chair"))
	alice := types.GenerateAddress([]byte("alice"))
	spawn, account := sdk.Spawn(chair, names(t, "a")...)
	vote := sdk.Vote(alice, account, 0)
	results := tt.apply(spawn, vote)

	rst, err := tt.Result(vote.ID())
	require.NoError(t, err)
	require.Equal(t, results[1], *rst)

	_, err = tt.Result(types.TransactionID{1})
	require.ErrorIs(t, err, sql.ErrNotFound)

	byAlice, err := tt.Results(alice)
	require.NoError(t, err)
	require.Equal(t, []types.TransactionResult{results[1]}, byAlice)
}

func TestStateSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.sql")
	chair := types.GenerateAddress([]byte("chair"))
	spawn, account := sdk.Spawn(chair, names(t, "a", "b")...)

	db, err := sql.Open("file:" + path)
	require.NoError(t, err)
	vm := New(db, WithLogger(logtest.New(t)))
	_, err = vm.Apply(context.Background(), []types.Transaction{spawn, sdk.Vote(chair, account, 1)})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sql.Open("file:" + path)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	vm = New(db, WithLogger(logtest.New(t)))
	index, name, err := vm.Winner(account)
	require.NoError(t, err)
	require.EqualValues(t, 1, index)
	require.Equal(t, "b", name.String())
}

func TestApplyCanceled(t *testing.T) {
	tt := newTester(t)
	chair := types.GenerateAddress([]byte("chair"))
	spawn, account := sdk.Spawn(chair, names(t, "a")...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := tt.Apply(ctx, []types.Transaction{spawn})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, results)

	_, err = tt.Election(account)
	require.ErrorIs(t, err, core.ErrNotSpawned)
}

func TestWinnerNotElection(t *testing.T) {
	tt := newTester(t)
	_, _, err := tt.Winner(types.GenerateAddress([]byte("nothing")))
	require.ErrorIs(t, err, core.ErrNotSpawned)
}

func BenchmarkVote(b *testing.B) {
	tt := newTester(b)
	chair := types.GenerateAddress([]byte("chair"))
	spawn, account := sdk.Spawn(chair, names(b, "a", "b")...)
	voters := make([]types.Address, b.N)
	for i := range voters {
		voters[i] = types.GenerateAddress([]byte{byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24)})
	}
	txs := []types.Transaction{spawn}
	for i := 0; i < len(voters); i += election.MaxEnrollBatch {
		txs = append(txs, sdk.Enroll(chair, account, voters[i:min(i+election.MaxEnrollBatch, len(voters))]...))
	}
	tt.apply(txs...)
	votes := make([]types.Transaction, 0, b.N)
	for i, voter := range voters {
		votes = append(votes, sdk.Vote(voter, account, uint32(i%2)))
	}
	b.ResetTimer()
	_, err := tt.Apply(context.Background(), votes)
	require.NoError(b, err)
}

func TestCacheKeepsLaterRevision(t *testing.T) {
	tt := newTester(t)
	chair := types.GenerateAddress([]byte("chair"))
	spawn, account := sdk.Spawn(chair, names(t, "a", "b")...)
	tt.apply(spawn)

	stale, err := accounts.Get(tt.db, account)
	require.NoError(t, err)
	tt.apply(sdk.Vote(chair, account, 1))

	tt.cacheMu.Lock()
	commits := tt.commits
	tt.cacheMu.Unlock()
	tt.cacheLoaded(stale, commits)

	acc, err := tt.Account(account)
	require.NoError(t, err)
	require.EqualValues(t, 2, acc.Revision)
	index, _, err := tt.Winner(account)
	require.NoError(t, err)
	require.EqualValues(t, 1, index)
}

func TestCacheDropsReadOverlappingCommit(t *testing.T) {
	tt := newTester(t)
	chair := types.GenerateAddress([]byte("chair"))
	spawn, account := sdk.Spawn(chair, names(t, "a", "b")...)
	tt.apply(spawn)

	tt.cacheMu.Lock()
	commits := tt.commits
	tt.cacheMu.Unlock()
	stale, err := accounts.Get(tt.db, account)
	require.NoError(t, err)

	tt.apply(sdk.Vote(chair, account, 1))
	tt.cache.Purge()
	tt.cacheLoaded(stale, commits)
	require.False(t, tt.cache.Contains(account))

	acc, err := tt.Account(account)
	require.NoError(t, err)
	require.EqualValues(t, 2, acc.Revision)
	require.True(t, tt.cache.Contains(account))
}
