package models

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID validates a raw identifier for the named resource.
func ParseID(resource, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, NewInvalidIdentifierError(resource)
	}
	return id, nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
