// Package id generates the prefixed unique identifiers used for records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the record kinds the engine persists.
const (
	PrefixBook    = "book"
	PrefixCollage = "col"
	PrefixImage   = "img"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g. "book-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36), and use a
// larger alphabet for better entropy per character.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails. Use only
// where insufficient system entropy should crash the program.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
