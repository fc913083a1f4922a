package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. Run ids sort by creation time, so
// log lines and reports of successive runs line up.
func NewULID() string {
	return ulid.Make().String()
}
