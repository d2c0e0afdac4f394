package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-ballot/cmd"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/config"
	vm "github.com/spacemeshos/go-ballot/genvm"
	"github.com/spacemeshos/go-ballot/log"
	"github.com/spacemeshos/go-ballot/metrics"
	"github.com/spacemeshos/go-ballot/sql"
)

// app holds resources opened for a single command.
type app struct {
	fs     afero.Fs
	conf   *config.Config
	logger *zap.Logger
	db     *sql.Database
	vm     *vm.VM
}

// run opens database and vm, executes fn and releases everything on return.
func (a *app) run(c *cobra.Command, fn func(context.Context) error) (err error) {
	if err := a.open(c); err != nil {
		return err
	}
	defer func() {
		if a.conf.MetricsPush != "" {
			if perr := metrics.Push(c.Context(), a.conf.MetricsPush, "ballot", map[string]string{
				"command": c.Name(),
			}); perr != nil {
				a.logger.Warn("failed to push metrics", zap.Error(perr))
			}
		}
		err = errors.Join(err, a.close())
	}()
	return fn(c.Context())
}

func (a *app) open(c *cobra.Command) error {
	conf, err := cmd.LoadConfig(c.Flags())
	if err != nil {
		return err
	}
	logger, err := log.New("ballot", conf.Logging.Level, conf.Logging.Encoder)
	if err != nil {
		return err
	}
	types.SetAddressHRP(conf.Address.NetworkHRP)
	if err := a.fs.MkdirAll(conf.DataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir %s: %w", conf.DataDir, err)
	}
	db, err := sql.Open("file:"+conf.DatabasePath(),
		sql.WithLogger(logger.Named("db")),
		sql.WithConnections(conf.DatabaseConnections),
	)
	if err != nil {
		return err
	}
	a.conf = conf
	a.logger = logger
	a.db = db
	a.vm = vm.New(db,
		vm.WithLogger(logger.Named("vm")),
		vm.WithCacheSize(conf.VM.CacheSize),
	)
	return nil
}

func (a *app) close() error {
	err := a.db.Close()
	_ = a.logger.Sync()
	return err
}

// apply submits transactions one by one and stops at the first one that didn't succeed.
func (a *app) apply(ctx context.Context, txs ...types.Transaction) error {
	for _, tx := range txs {
		results, err := a.vm.Apply(ctx, []types.Transaction{tx})
		if err != nil {
			return err
		}
		result := &results[0]
		a.logger.Info("transaction applied", zap.Object("result", result))
		if result.Status != types.TransactionSuccess {
			return fmt.Errorf("transaction %s %s: %s", result.ID.ShortString(), result.Status, result.Message)
		}
	}
	return nil
}
