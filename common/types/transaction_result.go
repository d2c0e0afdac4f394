package types

import (
	"go.uber.org/zap/zapcore"
)

// TransactionStatus of the applied transaction.
type TransactionStatus uint8

const (
	// TransactionSuccess is a status for successfully applied transaction.
	TransactionSuccess TransactionStatus = iota
	// TransactionFailure is a status for transaction that was rejected by the template.
	// State of the account is not modified.
	TransactionFailure
	// TransactionInvalid is a status for transaction that couldn't be parsed
	// or refers to the account that doesn't exist.
	TransactionInvalid
)

// String implements human readable representation of the status.
func (t TransactionStatus) String() string {
	switch t {
	case TransactionSuccess:
		return "success"
	case TransactionFailure:
		return "failure"
	case TransactionInvalid:
		return "invalid"
	}
	panic("unknown status")
}

// MaxResultMessage is a limit on the size of the message stored in the result.
const MaxResultMessage = 1024

// TransactionResult is created after consuming transaction.
type TransactionResult struct {
	ID      TransactionID
	Status  TransactionStatus
	Message string `scale:"max=1024"`
	// Account that was spawned or targeted by the transaction.
	Account Address
}

// MarshalLogObject implements encoding for the tx result.
func (h *TransactionResult) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("id", h.ID.ShortString())
	encoder.AddString("status", h.Status.String())
	if h.Status > TransactionSuccess {
		encoder.AddString("message", h.Message)
	}
	encoder.AddString("account", h.Account.String())
	return nil
}

