package document

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ObjectIDLen is the size of an ObjectID in bytes.
const ObjectIDLen = 12

// ErrInvalidHex indicates that a string is not a valid ObjectID hex form.
var ErrInvalidHex = errors.New("the provided hex string is not a valid ObjectID")

// ObjectID is a 12-byte globally unique identifier.
type ObjectID [ObjectIDLen]byte

// NilObjectID is the zero ObjectID.
var NilObjectID ObjectID

// ObjectIDFromHex parses the 24-character hex form of an ObjectID.
// Upper- and lower-case digits are accepted.
func ObjectIDFromHex(s string) (ObjectID, error) {
	if len(s) != 2*ObjectIDLen {
		return NilObjectID, fmt.Errorf("%w: length %d, want %d", ErrInvalidHex, len(s), 2*ObjectIDLen)
	}
	var id ObjectID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return NilObjectID, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return id, nil
}

// Hex returns the 24-character lower-case hex form.
func (id ObjectID) Hex() string { return hex.EncodeToString(id[:]) }

// String implements fmt.Stringer.
func (id ObjectID) String() string { return fmt.Sprintf("ObjectID(%q)", id.Hex()) }

// IsZero reports whether id is NilObjectID.
func (id ObjectID) IsZero() bool { return id == NilObjectID }

// MarshalText implements encoding.TextMarshaler.
func (id ObjectID) MarshalText() ([]byte, error) { return []byte(id.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ObjectID) UnmarshalText(b []byte) error {
	parsed, err := ObjectIDFromHex(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
