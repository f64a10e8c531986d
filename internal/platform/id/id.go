// Package id provides utilities for generating URL-safe identifiers.
//
// Identifiers are UUIDv4 bytes encoded as base32 (RFC 4648) with no
// padding. The resulting strings are 26 characters long, lowercase, and
// safe for use in URLs, file paths, and log lines.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID generates a URL-safe identifier from UUIDv4 bytes.
func NewID() (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw[:])
	return strings.ToLower(encoded), nil
}
