// internal/notify/eventid.go
package notify

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// EventID identifies a class of event. It is built from a name and is a
// comparable value: two ids created from the same name are equal and can be
// used interchangeably as map keys.
type EventID struct {
	name string
	hash uint32
}

// NewEventID creates an EventID from name.
func NewEventID(name string) (EventID, error) {
	if strings.TrimSpace(name) == "" {
		return EventID{}, fmt.Errorf("%w: empty name", ErrInvalidEventID)
	}
	return EventID{
		name: name,
		hash: crc32.ChecksumIEEE([]byte(name)),
	}, nil
}

// MustEventID is like NewEventID but panics on an invalid name.
// Intended for package-level event declarations.
func MustEventID(name string) EventID {
	id, err := NewEventID(name)
	if err != nil {
		panic(err)
	}
	return id
}

// Name returns the name the id was created from.
func (id EventID) Name() string {
	return id.name
}

// Hash returns the CRC-32 checksum of the name.
func (id EventID) Hash() uint32 {
	return id.hash
}

// IsZero reports whether id is the zero value.
func (id EventID) IsZero() bool {
	return id.name == ""
}

func (id EventID) String() string {
	return id.name
}
