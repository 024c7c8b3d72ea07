package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefixes distinguish which kind of entity an ID names.
const (
	ParticipantPrefix = "par"
	ExpensePrefix     = "exp"
	GroupPrefix       = "grp"
)

// NewParticipantID returns a fresh participant ID like "par_9f0c2e4a-…".
// IDs are stable for the life of the process and are the only notion of
// participant identity.
func NewParticipantID() string { return newID(ParticipantPrefix) }

// NewExpenseID returns a fresh expense ID.
func NewExpenseID() string { return newID(ExpensePrefix) }

// NewGroupID returns a fresh group ID.
func NewGroupID() string { return newID(GroupPrefix) }

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Kind parses an ID and returns its prefix.
func Kind(id string) (string, error) {
	prefix, rest, ok := strings.Cut(id, "_")
	if !ok || prefix == "" {
		return "", fmt.Errorf("invalid ID format: %q", id)
	}
	if _, err := uuid.Parse(rest); err != nil {
		return "", fmt.Errorf("invalid ID %q: %w", id, err)
	}
	return prefix, nil
}
