package types

import "go.uber.org/zap/zapcore"

// Account is a state of the spawned template instance, such as an election.
type Account struct {
	Address Address
	// Template is nil if account wasn't spawned.
	Template *Address
	// State is an encoded template instance.
	State []byte
	// Revision is incremented every time state is updated.
	Revision uint64
}

// Spawned returns true if account was spawned from a template.
func (a *Account) Spawned() bool {
	return a.Template != nil
}

// MarshalLogObject implements encoding for the account.
func (a *Account) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("address", a.Address.String())
	if a.Template != nil {
		encoder.AddString("template", a.Template.String())
	}
	encoder.AddInt("state", len(a.State))
	encoder.AddUint64("revision", a.Revision)
	return nil
}
