package vm

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-ballot/ballot"
	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/genvm/core"
	"github.com/spacemeshos/go-ballot/genvm/registry"
	"github.com/spacemeshos/go-ballot/genvm/templates/election"
	"github.com/spacemeshos/go-ballot/sql"
	"github.com/spacemeshos/go-ballot/sql/accounts"
	"github.com/spacemeshos/go-ballot/sql/transactions"
)

// DefaultCacheSize is a number of accounts kept in memory for reads.
const DefaultCacheSize = 1024

// Opt is for changing VM during initialization.
type Opt func(*VM)

// WithLogger sets logger for VM.
func WithLogger(logger *zap.Logger) Opt {
	return func(vm *VM) {
		vm.logger = logger
	}
}

// WithRegistry overwrites registry with templates. By default only election template is registered.
func WithRegistry(reg *registry.Registry) Opt {
	return func(vm *VM) {
		vm.registry = reg
	}
}

// WithCacheSize sets the number of accounts that are cached for reads.
func WithCacheSize(size int) Opt {
	return func(vm *VM) {
		vm.cacheSize = size
	}
}

// New returns VM instance.
func New(db *sql.Database, opts ...Opt) *VM {
	vm := &VM{
		logger:    zap.NewNop(),
		db:        db,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.registry == nil {
		vm.registry = registry.New()
		election.Register(vm.registry)
	}
	cache, err := lru.New[types.Address, types.Account](vm.cacheSize)
	if err != nil {
		panic(fmt.Sprintf("invalid cache size %d: %s", vm.cacheSize, err))
	}
	vm.cache = cache
	return vm
}

// VM handles modifications to the account state.
type VM struct {
	logger    *zap.Logger
	db        *sql.Database
	registry  *registry.Registry
	cacheSize int

	// mu serializes Apply. Reads don't take it, they observe only committed state.
	mu sync.Mutex

	// cacheMu orders cache writes from readers against commits.
	cacheMu sync.Mutex
	// commits is incremented after every committed transaction.
	commits uint64
	cache   *lru.Cache[types.Address, types.Account]
}

// cacheCommitted stores accounts updated by the committed transaction.
func (vm *VM) cacheCommitted(updated []types.Account) {
	vm.cacheMu.Lock()
	defer vm.cacheMu.Unlock()
	vm.commits++
	for _, account := range updated {
		vm.cache.Add(account.Address, account)
	}
}

// cacheLoaded stores account loaded from the database by a reader.
// Account is dropped if any transaction committed since the reader started,
// or if the cache already holds the same or a later revision.
func (vm *VM) cacheLoaded(account types.Account, commits uint64) {
	vm.cacheMu.Lock()
	defer vm.cacheMu.Unlock()
	if vm.commits != commits {
		return
	}
	if cached, ok := vm.cache.Peek(account.Address); ok && cached.Revision >= account.Revision {
		return
	}
	vm.cache.Add(account.Address, account)
}

// Apply transactions in order. Every transaction is applied atomically together with its result.
//
// Transaction that was rejected by the template doesn't change the account,
// it produces a result with TransactionFailure status. Transaction that can't be parsed
// produces a result with TransactionInvalid status.
// Error is returned only if state can't be loaded or stored, in that case results
// for the transactions that were applied before the error are returned.
func (vm *VM) Apply(ctx context.Context, txs []types.Transaction) ([]types.TransactionResult, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	results := make([]types.TransactionResult, 0, len(txs))
	for i := range txs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		tx := &txs[i]
		start := time.Now()
		var (
			result types.TransactionResult
			store  = &txStore{}
		)
		if err := vm.db.WithTx(ctx, func(dbtx *sql.Tx) error {
			store.db = dbtx
			var err error
			result, err = execute(vm.logger, vm.registry, store, tx)
			if err != nil {
				return err
			}
			return transactions.Add(dbtx, tx, &result)
		}); err != nil {
			vm.logger.Error("failed to apply transaction", zap.Object("tx", tx), zap.Error(err))
			return results, fmt.Errorf("apply %s: %w", tx.ID(), err)
		}
		vm.cacheCommitted(store.updated)
		results = append(results, result)
		transactionsApplied.WithLabelValues(strconv.Itoa(int(tx.Method)), result.Status.String()).Inc()
		applyDuration.Observe(time.Since(start).Seconds())
		vm.logger.Debug("applied transaction",
			zap.Object("tx", tx),
			zap.Object("result", &result),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return results, nil
}

// Account returns latest committed state of the account.
func (vm *VM) Account(address types.Address) (types.Account, error) {
	if account, ok := vm.cache.Get(address); ok {
		return account, nil
	}
	vm.cacheMu.Lock()
	commits := vm.commits
	vm.cacheMu.Unlock()
	account, err := accounts.Get(vm.db, address)
	if err != nil {
		return types.Account{}, err
	}
	if account.Spawned() {
		vm.cacheLoaded(account, commits)
	}
	return account, nil
}

// Election decodes election from the latest committed state of the account.
func (vm *VM) Election(address types.Address) (*ballot.Election, error) {
	account, err := vm.Account(address)
	if err != nil {
		return nil, err
	}
	return decodeElection(&account)
}

func decodeElection(account *types.Account) (*ballot.Election, error) {
	if !account.Spawned() {
		return nil, fmt.Errorf("%w: %s", core.ErrNotSpawned, account.Address)
	}
	if *account.Template != election.TemplateAddress {
		return nil, fmt.Errorf("%w: %s is not an election", core.ErrUnknownTemplate, account.Address)
	}
	var rst ballot.Election
	if err := codec.Decode(account.State, &rst); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", core.ErrInternal, account.Address, err)
	}
	return &rst, nil
}

// Winner returns index and name of the winning proposal in the election.
func (vm *VM) Winner(address types.Address) (uint32, ballot.Name, error) {
	e, err := vm.Election(address)
	if err != nil {
		return 0, ballot.Name{}, err
	}
	return e.WinningProposal(), e.WinnerName(), nil
}

// Elections calls fn for every spawned election until fn returns false.
func (vm *VM) Elections(fn func(types.Address, *ballot.Election) bool) error {
	var derr error
	if err := accounts.IterateTemplate(vm.db, election.TemplateAddress, func(account types.Account) bool {
		var e *ballot.Election
		e, derr = decodeElection(&account)
		if derr != nil {
			return false
		}
		return fn(account.Address, e)
	}); err != nil {
		return err
	}
	return derr
}

// Result returns the latest result of the transaction.
func (vm *VM) Result(id types.TransactionID) (*types.TransactionResult, error) {
	return transactions.Get(vm.db, id)
}

// Results returns results of all transactions submitted by the principal.
func (vm *VM) Results(principal types.Address) ([]types.TransactionResult, error) {
	return transactions.ByPrincipal(vm.db, principal)
}
