package transactions

import (
	"fmt"

	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/sql"
)

// Add result of the applied transaction.
// The same transaction may be applied several times, every result is stored.
func Add(db sql.Executor, tx *types.Transaction, result *types.TransactionResult) error {
	buf, err := codec.Encode(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", result.ID, err)
	}
	if _, err := db.Exec(`insert into transactions (id, principal, target, method, result)
		values (?1, ?2, ?3, ?4, ?5);`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, result.ID.Bytes())
			stmt.BindBytes(2, tx.Principal.Bytes())
			stmt.BindBytes(3, tx.Target.Bytes())
			stmt.BindInt64(4, int64(tx.Method))
			stmt.BindBytes(5, buf)
		}, nil); err != nil {
		return fmt.Errorf("insert result %s: %w", result.ID, err)
	}
	return nil
}

func decodeResult(stmt *sql.Statement, col int) (*types.TransactionResult, error) {
	var result types.TransactionResult
	if _, err := codec.DecodeFrom(stmt.ColumnReader(col), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get the latest result of the transaction with id.
func Get(db sql.Executor, id types.TransactionID) (rst *types.TransactionResult, err error) {
	rows, qerr := db.Exec("select result from transactions where id = ?1 order by rowid desc limit 1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, id.Bytes())
		}, func(stmt *sql.Statement) bool {
			rst, err = decodeResult(stmt, 0)
			return false
		})
	if qerr != nil {
		return nil, fmt.Errorf("get result %s: %w", id, qerr)
	}
	if rows == 0 {
		return nil, fmt.Errorf("get result %s: %w", id, sql.ErrNotFound)
	}
	return rst, err
}

// ByPrincipal returns results of the transactions submitted by principal in the order they were applied.
func ByPrincipal(db sql.Executor, principal types.Address) (rst []types.TransactionResult, err error) {
	_, qerr := db.Exec("select result from transactions where principal = ?1 order by rowid;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, principal.Bytes())
		}, func(stmt *sql.Statement) bool {
			var result *types.TransactionResult
			result, err = decodeResult(stmt, 0)
			if err != nil {
				return false
			}
			rst = append(rst, *result)
			return true
		})
	if qerr != nil {
		return nil, fmt.Errorf("results for %s: %w", principal, qerr)
	}
	return rst, err
}
