// Package pagination implements the opaque keyset cursors used by listing
// endpoints. A cursor pins the (created_at, id) position of the last item
// the caller has seen.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor is a decoded listing position.
type Cursor struct {
	LastID    string
	Timestamp time.Time
}

// EncodeCursor renders a position as an opaque URL-safe token. An empty ID
// yields an empty token, meaning "start from the beginning".
func EncodeCursor(lastID string, ts time.Time) string {
	if lastID == "" {
		return ""
	}
	raw := ts.UTC().Format(time.RFC3339Nano) + "|" + lastID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by EncodeCursor. An empty token
// decodes to a nil cursor; anything malformed is ErrInvalidCursor.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	tsPart, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return nil, ErrInvalidCursor
	}
	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &Cursor{LastID: id, Timestamp: ts}, nil
}
