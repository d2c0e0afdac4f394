package sql

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sqlite "github.com/go-llsqlite/crawshaw"
	"github.com/go-llsqlite/crawshaw/sqlitex"
	"go.uber.org/zap"
)

var (
	// ErrNoConnection is returned if pooled connection is not available.
	ErrNoConnection = errors.New("database: no free connection")
	// ErrNotFound is returned if requested record is not found.
	ErrNotFound = errors.New("database: not found")
	// ErrObjectExists is returned if database constraints didn't allow to insert an object.
	ErrObjectExists = errors.New("database: object exists")
	// ErrTooNew is returned if database version is newer than expected.
	ErrTooNew = errors.New("database version is too new")
	// ErrOldSchema is returned when the database version differs from the expected one
	// and migrations are disabled.
	ErrOldSchema = errors.New("old database version")
)

// Executor is an interface for executing raw statement.
type Executor interface {
	Exec(string, Encoder, Decoder) (int, error)
}

// Statement is an sqlite statement.
type Statement = sqlite.Stmt

// Encoder for parameters.
// Both positional parameters:
// select state from accounts where address = ?1;
//
// and named parameters are supported:
// select state from accounts where address = @address;
//
// For complete information see https://www.sqlite.org/c3ref/bind_blob.html.
type Encoder func(*Statement)

// Decoder for sqlite rows.
type Decoder func(*Statement) bool

func defaultConf() *conf {
	return &conf{
		enableMigrations: true,
		connections:      16,
		logger:           zap.NewNop(),
	}
}

type conf struct {
	enableMigrations bool
	forceFresh       bool
	connections      int
	logger           *zap.Logger
}

// WithConnections overwrites number of pooled connections.
func WithConnections(n int) Opt {
	return func(c *conf) {
		c.connections = n
	}
}

// WithLogger specifies logger for the database.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *conf) {
		c.logger = logger
	}
}

// WithMigrationsDisabled disables migrations for the database.
// The migrations are enabled by default.
func WithMigrationsDisabled() Opt {
	return func(c *conf) {
		c.enableMigrations = false
	}
}

func withForceFresh() Opt {
	return func(c *conf) {
		c.forceFresh = true
	}
}

// Opt for configuring database.
type Opt func(c *conf)

// OpenInMemory creates an in-memory database.
func OpenInMemory(opts ...Opt) (*Database, error) {
	opts = append(opts, WithConnections(1), withForceFresh())
	return Open("file::memory:?mode=memory", opts...)
}

// InMemory creates an in-memory database for testing and panics if
// there's an error.
func InMemory(opts ...Opt) *Database {
	db, err := OpenInMemory(opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// Open sqlite database at uri in WAL mode, creating the file if it is missing.
// Schema is brought to the latest version unless migrations are disabled.
func Open(uri string, opts ...Opt) (*Database, error) {
	cfg := defaultConf()
	for _, opt := range opts {
		opt(cfg)
	}
	pool, err := openPool(uri, cfg)
	if err != nil {
		return nil, err
	}
	db := &Database{pool: pool}
	if err := db.WithTx(context.Background(), func(tx *Tx) error {
		return migrate(cfg.logger.With(zap.String("uri", uri)), tx, cfg.enableMigrations)
	}); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate %s: %w", uri, err), db.Close())
	}
	return db, nil
}

func openPool(uri string, cfg *conf) (*sqlitex.Pool, error) {
	if cfg.forceFresh {
		// zero flags select crawshaw defaults, which include create
		pool, err := sqlitex.Open(uri, 0, cfg.connections)
		if err != nil {
			return nil, fmt.Errorf("open db %s: %w", uri, err)
		}
		return pool, nil
	}
	flags := sqlite.SQLITE_OPEN_READWRITE |
		sqlite.SQLITE_OPEN_WAL |
		sqlite.SQLITE_OPEN_URI |
		sqlite.SQLITE_OPEN_NOMUTEX
	pool, err := sqlitex.Open(uri, flags, cfg.connections)
	if err == nil {
		return pool, nil
	}
	if sqlite.ErrCode(err) != sqlite.SQLITE_CANTOPEN {
		return nil, fmt.Errorf("open db %s: %w", uri, err)
	}
	pool, err = sqlitex.Open(uri, flags|sqlite.SQLITE_OPEN_CREATE, cfg.connections)
	if err != nil {
		return nil, fmt.Errorf("create db %s: %w", uri, err)
	}
	return pool, nil
}

// Database is an instance of sqlite database.
type Database struct {
	pool *sqlitex.Pool

	closed   bool
	closeMux sync.Mutex
}

func (db *Database) getConn(ctx context.Context) *sqlite.Conn {
	start := time.Now()
	conn := db.pool.Get(ctx)
	if conn != nil {
		connWaitLatency.Observe(time.Since(start).Seconds())
	}
	return conn
}

// WithTx runs exec inside an immediate transaction that holds the write lock
// from the start. Transaction is committed only if exec returns nil.
//
// https://www.sqlite.org/lang_transaction.html
func (db *Database) WithTx(ctx context.Context, exec func(*Tx) error) error {
	conn := db.getConn(ctx)
	if conn == nil {
		return ErrNoConnection
	}
	defer db.pool.Put(conn)
	tx := &Tx{conn: conn}
	if err := tx.begin(); err != nil {
		return err
	}
	if err := exec(tx); err != nil {
		return errors.Join(err, tx.rollback())
	}
	if err := tx.commit(); err != nil {
		return errors.Join(err, tx.rollback())
	}
	return nil
}

// Exec runs a single statement on a pooled connection outside of any transaction.
// Writes that must be applied together go through WithTx.
func (db *Database) Exec(query string, encoder Encoder, decoder Decoder) (int, error) {
	conn := db.getConn(context.Background())
	if conn == nil {
		return 0, ErrNoConnection
	}
	defer db.pool.Put(conn)
	return exec(conn, query, encoder, decoder)
}

// Close closes all pooled connections.
func (db *Database) Close() error {
	db.closeMux.Lock()
	defer db.closeMux.Unlock()
	if db.closed {
		return nil
	}
	if err := db.pool.Close(); err != nil {
		return fmt.Errorf("close pool %w", err)
	}
	db.closed = true
	return nil
}

func exec(conn *sqlite.Conn, query string, encoder Encoder, decoder Decoder) (int, error) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("prepare %s: %w", query, err)
	}
	if encoder != nil {
		encoder(stmt)
	}
	defer stmt.ClearBindings()

	rows := 0
	for {
		row, err := stmt.Step()
		if err != nil {
			code := sqlite.ErrCode(err)
			if code == sqlite.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite.SQLITE_CONSTRAINT_UNIQUE {
				return 0, ErrObjectExists
			}
			return 0, fmt.Errorf("step %d: %w", rows, err)
		}
		if !row {
			return rows, nil
		}
		rows++
		// exhaust iterator
		if decoder == nil {
			continue
		}
		if !decoder(stmt) {
			if err := stmt.Reset(); err != nil {
				return rows, fmt.Errorf("statement reset %w", err)
			}
			return rows, nil
		}
	}
}

// Tx is an open immediate transaction. It is valid only inside the WithTx callback.
type Tx struct {
	conn      *sqlite.Conn
	committed bool
}

func (tx *Tx) step(query string) error {
	if _, err := tx.conn.Prep(query).Step(); err != nil {
		return fmt.Errorf("%s %w", query, err)
	}
	return nil
}

func (tx *Tx) begin() error {
	return tx.step("BEGIN IMMEDIATE;")
}

func (tx *Tx) commit() error {
	if err := tx.step("COMMIT;"); err != nil {
		return err
	}
	tx.committed = true
	return nil
}

// rollback is a noop if transaction was committed.
func (tx *Tx) rollback() error {
	if tx.committed {
		return nil
	}
	return tx.step("ROLLBACK;")
}

// Exec query within the transaction.
func (tx *Tx) Exec(query string, encoder Encoder, decoder Decoder) (int, error) {
	return exec(tx.conn, query, encoder, decoder)
}
