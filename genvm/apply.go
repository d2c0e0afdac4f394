package vm

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-ballot/codec"
	"github.com/spacemeshos/go-ballot/common/types"
	"github.com/spacemeshos/go-ballot/genvm/core"
	"github.com/spacemeshos/go-ballot/genvm/registry"
)

// execute a single transaction against the store.
//
// Account is updated in the store only if the transaction succeeded.
// Returned error is always wrapped ErrInternal, other errors are reported in the result.
func execute(
	logger *zap.Logger,
	reg *registry.Registry,
	store core.AccountStore,
	tx *types.Transaction,
) (types.TransactionResult, error) {
	result := types.TransactionResult{ID: tx.ID(), Account: tx.Target}
	ctx, handler, args, err := parse(reg, store, tx)
	if err != nil {
		if errors.Is(err, core.ErrInternal) {
			return result, err
		}
		logger.Debug("transaction is invalid", zap.Object("tx", tx), zap.Error(err))
		return withError(result, types.TransactionInvalid, err), nil
	}
	if tx.Method == core.MethodSpawn {
		address := core.ComputeAddress(tx.Target, tx.Principal, args)
		result.Account = address
		exists, err := store.Has(address)
		if err != nil {
			return result, fmt.Errorf("%w: load %s: %w", core.ErrInternal, address, err)
		}
		if exists {
			return withError(result, types.TransactionFailure, fmt.Errorf("%w: %s", core.ErrSpawned, address)), nil
		}
		instance, err := handler.New(tx.Principal, args)
		if err != nil {
			logger.Debug("spawn rejected", zap.Object("tx", tx), zap.Error(err))
			return withError(result, types.TransactionFailure, err), nil
		}
		template := tx.Target
		ctx.Account = types.Account{Address: address, Template: &template}
		ctx.Template = instance
	} else {
		ctx.Template, err = handler.Load(ctx.Account.State)
		if err != nil {
			return result, err
		}
		if err := handler.Exec(ctx, tx.Method, args); err != nil {
			if errors.Is(err, core.ErrInternal) {
				return result, err
			}
			logger.Debug("transaction rejected", zap.Object("tx", tx), zap.Error(err))
			return withError(result, types.TransactionFailure, err), nil
		}
	}
	state, err := codec.Encode(ctx.Template)
	if err != nil {
		return result, fmt.Errorf("%w: encode %s: %w", core.ErrInternal, ctx.Account.Address, err)
	}
	ctx.Account.State = state
	ctx.Account.Revision++
	if err := store.Update(ctx.Account); err != nil {
		return result, fmt.Errorf("%w: update %s: %w", core.ErrInternal, ctx.Account.Address, err)
	}
	result.Status = types.TransactionSuccess
	return result, nil
}

// parse resolves the handler for the transaction and decodes method arguments.
func parse(
	reg *registry.Registry,
	store core.AccountStore,
	tx *types.Transaction,
) (*core.Context, core.Handler, scale.Encodable, error) {
	ctx := &core.Context{Principal: tx.Principal}
	template := tx.Target
	if tx.Method != core.MethodSpawn {
		account, err := store.Get(tx.Target)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: load %s: %w", core.ErrInternal, tx.Target, err)
		}
		if !account.Spawned() {
			return nil, nil, nil, fmt.Errorf("%w: %s", core.ErrNotSpawned, tx.Target)
		}
		ctx.Account = account
		template = *account.Template
	}
	handler := reg.Get(template)
	if handler == nil {
		return nil, nil, nil, fmt.Errorf("%w: %s", core.ErrUnknownTemplate, template)
	}
	rd := bytes.NewReader(tx.Payload)
	args, err := handler.Parse(tx.Method, scale.NewDecoder(rd))
	if err != nil {
		return nil, nil, nil, err
	}
	if rd.Len() != 0 {
		return nil, nil, nil, fmt.Errorf("%w: %d trailing bytes in payload", core.ErrMalformed, rd.Len())
	}
	return ctx, handler, args, nil
}

func withError(result types.TransactionResult, status types.TransactionStatus, err error) types.TransactionResult {
	result.Status = status
	result.Message = err.Error()
	if len(result.Message) > types.MaxResultMessage {
		result.Message = result.Message[:types.MaxResultMessage]
	}
	return result
}
