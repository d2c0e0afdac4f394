package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-ballot/ballot"
	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/genvm/core"
	"github.com/spacemeshos/go-ballot/genvm/core/mocks"
	"github.com/spacemeshos/go-ballot/genvm/registry"
	sdk "github.com/spacemeshos/go-ballot/genvm/sdk/election"
	"github.com/spacemeshos/go-ballot/genvm/templates/election"
)

func testRegistry() *registry.Registry {
	reg := registry.New()
	election.Register(reg)
	return reg
}

func spawned(tb testing.TB, address, chair types.Address, proposals ...string) types.Account {
	tb.Helper()
	e, err := ballot.New(chair, names(tb, proposals...))
	require.NoError(tb, err)
	template := election.TemplateAddress
	return types.Account{
		Address:  address,
		Template: &template,
		State:    codec.MustEncode(e),
		Revision: 1,
	}
}

func TestExecuteSpawn(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	chair := types.GenerateAddress([]byte("chair"))
	tx, account := sdk.Spawn(chair, names(t, "a", "b")...)

	store.EXPECT().Has(account).Return(false, nil)
	store.EXPECT().Update(gomock.Any()).DoAndReturn(func(acc types.Account) error {
		require.Equal(t, account, acc.Address)
		require.Equal(t, election.TemplateAddress, *acc.Template)
		require.EqualValues(t, 1, acc.Revision)
		var e ballot.Election
		require.NoError(t, codec.Decode(acc.State, &e))
		require.Equal(t, chair, e.Chairperson())
		return nil
	})
	result, err := execute(zap.NewNop(), testRegistry(), store, &tx)
	require.NoError(t, err)
	require.Equal(t, types.TransactionSuccess, result.Status)
	require.Equal(t, account, result.Account)
	require.Equal(t, tx.ID(), result.ID)
}

func TestExecuteFailureNotStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	chair := types.GenerateAddress([]byte("chair"))
	address := types.GenerateAddress([]byte("election"))
	stranger := types.GenerateAddress([]byte("stranger"))

	store.EXPECT().Get(address).Return(spawned(t, address, chair, "a"), nil)
	store.EXPECT().Update(gomock.Any()).Times(0)

	tx := sdk.Vote(stranger, address, 0)
	result, err := execute(zap.NewNop(), testRegistry(), store, &tx)
	require.NoError(t, err)
	require.Equal(t, types.TransactionFailure, result.Status)
	require.Contains(t, result.Message, ballot.ErrNoVotingRights.Error())
}

func TestExecuteUpdatesRevision(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	chair := types.GenerateAddress([]byte("chair"))
	address := types.GenerateAddress([]byte("election"))

	store.EXPECT().Get(address).Return(spawned(t, address, chair, "a", "b"), nil)
	store.EXPECT().Update(gomock.Any()).DoAndReturn(func(acc types.Account) error {
		require.EqualValues(t, 2, acc.Revision)
		var e ballot.Election
		require.NoError(t, codec.Decode(acc.State, &e))
		require.True(t, e.Voter(chair).Voted)
		require.EqualValues(t, 1, e.Voter(chair).Vote)
		return nil
	})
	tx := sdk.Vote(chair, address, 1)
	result, err := execute(zap.NewNop(), testRegistry(), store, &tx)
	require.NoError(t, err)
	require.Equal(t, types.TransactionSuccess, result.Status)
}

func TestExecuteInternalErrors(t *testing.T) {
	chair := types.GenerateAddress([]byte("chair"))
	address := types.GenerateAddress([]byte("election"))
	tx := sdk.Vote(chair, address, 0)

	t.Run("load", func(t *testing.T) {
		store := mocks.NewMockAccountStore(gomock.NewController(t))
		store.EXPECT().Get(address).Return(types.Account{}, errors.New("disk"))
		_, err := execute(zap.NewNop(), testRegistry(), store, &tx)
		require.ErrorIs(t, err, core.ErrInternal)
	})
	t.Run("corrupted state", func(t *testing.T) {
		store := mocks.NewMockAccountStore(gomock.NewController(t))
		account := spawned(t, address, chair, "a")
		account.State = []byte{1, 2, 3}
		store.EXPECT().Get(address).Return(account, nil)
		_, err := execute(zap.NewNop(), testRegistry(), store, &tx)
		require.ErrorIs(t, err, core.ErrInternal)
	})
	t.Run("update", func(t *testing.T) {
		store := mocks.NewMockAccountStore(gomock.NewController(t))
		store.EXPECT().Get(address).Return(spawned(t, address, chair, "a"), nil)
		store.EXPECT().Update(gomock.Any()).Return(errors.New("disk"))
		_, err := execute(zap.NewNop(), testRegistry(), store, &tx)
		require.ErrorIs(t, err, core.ErrInternal)
	})
}

func TestResultMessageTruncated(t *testing.T) {
	result := withError(types.TransactionResult{}, types.TransactionFailure,
		errors.New(strings.Repeat("x", 2*types.MaxResultMessage)))
	require.Len(t, result.Message, types.MaxResultMessage)
	require.Equal(t, types.TransactionFailure, result.Status)
}

func TestExecuteSpawnExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	chair := types.GenerateAddress([]byte("chair"))
	tx, account := sdk.Spawn(chair, names(t, "a")...)

	store.EXPECT().Has(account).Return(true, nil)
	store.EXPECT().Update(gomock.Any()).Times(0)
	result, err := execute(zap.NewNop(), testRegistry(), store, &tx)
	require.NoError(t, err)
	require.Equal(t, types.TransactionFailure, result.Status)
	require.Contains(t, result.Message, core.ErrSpawned.Error())
	require.Equal(t, account, result.Account)
}
