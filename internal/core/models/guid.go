package models

import "github.com/google/uuid"

// GUID identifies a unit for the lifetime of the process.
type GUID = uuid.UUID

// EmptyGUID is the zero identifier, used for "no unit".
var EmptyGUID = uuid.Nil

// NewGUID returns a fresh random identifier.
func NewGUID() GUID {
	return uuid.New()
}
