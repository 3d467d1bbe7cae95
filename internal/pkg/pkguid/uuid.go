package pkguid

import "github.com/google/uuid"

// UUID generates time-ordered (version 7) UUID strings, so correlation ids of
// consecutive requests sort by arrival in log queries.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUIDv7, or a random UUIDv4 if the clock source fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
