package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// recommendationNamespace scopes deterministic recommendation ids
var recommendationNamespace = uuid.MustParse("6f1d3c52-8b0e-4b8e-9a51-1c2f0d7f4e21")

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// NewDeterministicID derives a stable identifier from its parts.
// The same parts always produce the same ID, so repeated passes over the same
// data yield identical recommendation ids.
func NewDeterministicID(parts ...string) ID {
	return ID(uuid.NewSHA1(recommendationNamespace, []byte(strings.Join(parts, "\x1f"))).String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}
