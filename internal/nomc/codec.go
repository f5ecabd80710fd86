package nomc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrBadMagic reports bytes that are not an encoded unit.
var ErrBadMagic = errors.New("nomc: bad magic")

// FormatError reports an unsupported format byte.
type FormatError struct {
	Got uint8
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("nomc: unsupported format version %d (want %d)", e.Got, FormatVersion)
}

// Encode serialises u as header + msgpack payload.
func Encode(u *Unit) ([]byte, error) {
	if u == nil {
		return nil, errors.New("nomc: nil unit")
	}
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(FormatVersion)
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(u); err != nil {
		return nil, fmt.Errorf("nomc: encode %s: %w", u.Module, err)
	}
	return buf.Bytes(), nil
}

// Decode parses bytes produced by Encode. It does not Verify.
func Decode(data []byte) (*Unit, error) {
	if len(data) < len(Magic)+1 || string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	if v := data[len(Magic)]; v != FormatVersion {
		return nil, &FormatError{Got: v}
	}
	var u Unit
	if err := msgpack.Unmarshal(data[len(Magic)+1:], &u); err != nil {
		return nil, fmt.Errorf("nomc: decode: %w", err)
	}
	if u.Magic != Magic {
		return nil, ErrBadMagic
	}
	return &u, nil
}
