package accounts

import (
	"errors"
	"fmt"

	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/sql"
)

// Has the account in the database.
func Has(db sql.Executor, address types.Address) (bool, error) {
	rows, err := db.Exec("select 1 from accounts where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
		}, nil,
	)
	if err != nil {
		return false, fmt.Errorf("has address %s: %w", address, err)
	}
	return rows > 0, nil
}

// Get account data. If account doesn't exist it is returned without template.
func Get(db sql.Executor, address types.Address) (types.Account, error) {
	account := types.Account{Address: address}
	_, err := db.Exec("select template, state, revision from accounts where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
		}, func(stmt *sql.Statement) bool {
			account.Template = &types.Address{}
			stmt.ColumnBytes(0, account.Template[:])
			account.State = make([]byte, stmt.ColumnLen(1))
			stmt.ColumnBytes(1, account.State)
			account.Revision = uint64(stmt.ColumnInt64(2))
			return false
		})
	if err != nil {
		return types.Account{}, fmt.Errorf("failed to load %s: %w", address, err)
	}
	return account, nil
}

// Update account state or insert it if it doesn't exist.
func Update(db sql.Executor, account *types.Account) error {
	if account.Template == nil {
		return errors.New("account without template can't be stored")
	}
	_, err := db.Exec(`insert into accounts (address, template, state, revision)
		values (?1, ?2, ?3, ?4)
		on conflict (address) do update set state = ?3, revision = ?4;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Address.Bytes())
			stmt.BindBytes(2, account.Template.Bytes())
			stmt.BindBytes(3, account.State)
			stmt.BindInt64(4, int64(account.Revision))
		}, nil)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", account.Address, err)
	}
	return nil
}

// IterateTemplate calls fn for every account spawned from the template, ordered by address.
// Iteration stops when fn returns false.
func IterateTemplate(db sql.Executor, template types.Address, fn func(types.Account) bool) error {
	_, err := db.Exec("select address, state, revision from accounts where template = ?1 order by address;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, template.Bytes())
		}, func(stmt *sql.Statement) bool {
			tmpl := template
			account := types.Account{Template: &tmpl}
			stmt.ColumnBytes(0, account.Address[:])
			account.State = make([]byte, stmt.ColumnLen(1))
			stmt.ColumnBytes(1, account.State)
			account.Revision = uint64(stmt.ColumnInt64(2))
			return fn(account)
		})
	if err != nil {
		return fmt.Errorf("iterate accounts for template %s: %w", template, err)
	}
	return nil
}
