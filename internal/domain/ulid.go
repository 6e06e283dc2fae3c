package domain

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ParseULID parses the textual form of a record id
func ParseULID(id string) (ulid.ULID, error) {
	parsedID, err := ulid.ParseStrict(id)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid ULID %q: %w", id, err)
	}
	return parsedID, nil
}
