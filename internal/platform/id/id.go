// Package id generates identifiers for games and series.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random v4 UUID encoded as 26 lowercase base32 characters.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// WithPrefix returns NewID prefixed by kind, as in "game-<id>".
func WithPrefix(kind string) (string, error) {
	raw, err := NewID()
	if err != nil {
		return "", err
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return raw, nil
	}
	return kind + "-" + raw, nil
}
