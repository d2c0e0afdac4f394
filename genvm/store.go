package vm

import (
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/genvm/core"
	"github.com/spacemeshos/go-ballot/sql"
	"github.com/spacemeshos/go-ballot/sql/accounts"
)

var _ core.AccountStore = (*txStore)(nil)

// txStore reads and writes accounts within a single database transaction.
// Updated accounts are collected so that they can be cached once transaction is committed.
type txStore struct {
	db      sql.Executor
	updated []types.Account
}

func (s *txStore) Has(address types.Address) (bool, error) {
	return accounts.Has(s.db, address)
}

func (s *txStore) Get(address types.Address) (types.Account, error) {
	return accounts.Get(s.db, address)
}

func (s *txStore) Update(account types.Account) error {
	if err := accounts.Update(s.db, &account); err != nil {
		return err
	}
	s.updated = append(s.updated, account)
	return nil
}
