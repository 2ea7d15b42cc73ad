package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidCursor means the cursor could not be decoded or belongs to another listing.
var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor is an opaque position: the kind of listing and the last ID seen.
type Cursor struct {
	Type  string
	Value string
}

// Encode returns URL-safe base64 of "type:value".
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Type + ":" + c.Value))
}

// DecodeCursor parses an encoded cursor. The empty string is the first page.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	typ, value, ok := strings.Cut(string(b), ":")
	if !ok {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Type: typ, Value: value}, nil
}
