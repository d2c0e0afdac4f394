package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsApplied(t *testing.T) {
	db := InMemory()
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	migrations, err := loadMigrations()
	require.NoError(t, err)
	version, err := Version(db)
	require.NoError(t, err)
	require.Equal(t, migrations[len(migrations)-1].order, version)

	var tables []string
	_, err = db.Exec("select name from sqlite_master where type = 'table' order by name;", nil,
		func(stmt *Statement) bool {
			tables = append(tables, stmt.ColumnText(0))
			return true
		})
	require.NoError(t, err)
	require.Equal(t, []string{"accounts", "transactions"}, tables)
}

func TestReopen(t *testing.T) {
	uri := "file:" + filepath.Join(t.TempDir(), "state.sql")
	db, err := Open(uri)
	require.NoError(t, err)
	_, err = db.Exec("insert into accounts (address, template, state, revision) values (?1, ?2, ?3, 1);",
		func(stmt *Statement) {
			stmt.BindBytes(1, []byte{1})
			stmt.BindBytes(2, []byte{2})
			stmt.BindBytes(3, []byte{3})
		}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(uri, WithMigrationsDisabled())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	rows, err := db.Exec("select 1 from accounts;", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rows)
}

func TestTooNew(t *testing.T) {
	uri := "file:" + filepath.Join(t.TempDir(), "state.sql")
	db, err := Open(uri)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 1000;", nil, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(uri)
	require.ErrorIs(t, err, ErrTooNew)
}

func TestWithTxRollback(t *testing.T) {
	db := InMemory()
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	insert := func(tx *Tx) error {
		_, err := tx.Exec("insert into accounts (address, template, state, revision) values (?1, ?1, ?1, 1);",
			func(stmt *Statement) {
				stmt.BindBytes(1, []byte{7})
			}, nil)
		return err
	}
	failure := errors.New("test")
	err := db.WithTx(context.Background(), func(tx *Tx) error {
		require.NoError(t, insert(tx))
		return failure
	})
	require.ErrorIs(t, err, failure)
	rows, err := db.Exec("select 1 from accounts;", nil, nil)
	require.NoError(t, err)
	require.Zero(t, rows)

	require.NoError(t, db.WithTx(context.Background(), insert))
	require.ErrorIs(t, db.WithTx(context.Background(), insert), ErrObjectExists)
	rows, err = db.Exec("select 1 from accounts;", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rows)
}
