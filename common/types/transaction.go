package types

import (
	"bytes"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

//go:generate scalegen -types Transaction,TransactionResult

// TransactionID is a 32-byte blake3 sum of the transaction, used as an identifier.
type TransactionID Hash32

const (
	// TransactionIDSize in bytes.
	TransactionIDSize = Hash32Length
	// MaxPayloadSize is a limit on the size of encoded method arguments.
	MaxPayloadSize = 64 << 10
)

// Hash32 returns the TransactionID as a Hash32.
func (id TransactionID) Hash32() Hash32 {
	return Hash32(id)
}

// ShortString returns a the first 5 characters of the ID, for logging purposes.
func (id TransactionID) ShortString() string {
	return id.Hash32().ShortString()
}

// String returns a hexadecimal representation of the TransactionID.
func (id TransactionID) String() string {
	return id.Hash32().String()
}

// Bytes returns the TransactionID as a byte slice.
func (id TransactionID) Bytes() []byte {
	return id[:]
}

// EncodeScale implements scale codec interface.
func (id *TransactionID) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, id[:])
}

// DecodeScale implements scale codec interface.
func (id *TransactionID) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, id[:])
}

// Transaction is a request to execute a template method on behalf of the principal.
//
// Principal is the identity of the caller. It is authenticated by the host before
// the transaction reaches the vm and is trusted as is afterwards.
// Target is the template address for spawn and the account address for every other method.
type Transaction struct {
	Principal Address
	Target    Address
	Method    uint8
	Payload   []byte `scale:"max=65536"`
}

// ID computes blake3 of the encoded transaction.
func (t *Transaction) ID() TransactionID {
	var buf bytes.Buffer
	if _, err := t.EncodeScale(scale.NewEncoder(&buf)); err != nil {
		panic(err)
	}
	return TransactionID(CalcHash32(buf.Bytes()))
}

// MarshalLogObject implements logging interface.
func (t *Transaction) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("principal", t.Principal.String())
	encoder.AddString("target", t.Target.String())
	encoder.AddUint8("method", t.Method)
	encoder.AddInt("payload", len(t.Payload))
	return nil
}
