package transactions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/sql"
)

func TestAddGet(t *testing.T) {
	db := sql.InMemory()
	tx := types.Transaction{
		Principal: types.GenerateAddress([]byte("alice")),
		Target:    types.GenerateAddress([]byte("election")),
		Method:    3,
		Payload:   []byte{0},
	}
	_, err := Get(db, tx.ID())
	require.ErrorIs(t, err, sql.ErrNotFound)

	first := types.TransactionResult{ID: tx.ID(), Status: types.TransactionSuccess, Account: tx.Target}
	require.NoError(t, Add(db, &tx, &first))
	got, err := Get(db, tx.ID())
	require.NoError(t, err)
	require.Equal(t, first, *got)

	second := types.TransactionResult{
		ID:      tx.ID(),
		Status:  types.TransactionFailure,
		Message: "already voted",
		Account: tx.Target,
	}
	require.NoError(t, Add(db, &tx, &second))
	got, err = Get(db, tx.ID())
	require.NoError(t, err)
	require.Equal(t, second, *got)

	results, err := ByPrincipal(db, tx.Principal)
	require.NoError(t, err)
	require.Equal(t, []types.TransactionResult{first, second}, results)

	results, err = ByPrincipal(db, tx.Target)
	require.NoError(t, err)
	require.Empty(t, results)
}
