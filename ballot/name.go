package ballot

import (
	"bytes"
	"fmt"

	"github.com/spacemeshos/go-scale"
)

// NameLength is the size of the proposal label.
const NameLength = 32

// Name is a fixed-size label of the proposal.
type Name [NameLength]byte

// NameFromString copies s into a Name. Labels longer than NameLength are rejected.
func NameFromString(s string) (Name, error) {
	var name Name
	if len(s) > NameLength {
		return name, fmt.Errorf("proposal name %q is longer than %d bytes", s, NameLength)
	}
	copy(name[:], s)
	return name, nil
}

// String returns the label without trailing zero bytes.
func (n Name) String() string {
	return string(bytes.TrimRight(n[:], "\x00"))
}

// EncodeScale implements scale codec interface.
func (n *Name) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, n[:])
}

// DecodeScale implements scale codec interface.
func (n *Name) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, n[:])
}
