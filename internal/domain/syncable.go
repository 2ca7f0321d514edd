package domain

import "time"

// Syncable provides the identity and timestamp fields shared by every entity
// that participates in synchronization. Embed it in any record that crosses
// the local/remote boundary.
type Syncable struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this on every successful mutation; last-write-wins conflict
// resolution depends on it moving strictly forward.
func (s *Syncable) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (s *Syncable) InitTimestamps() {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
}

// NewerThan reports whether this record's UpdatedAt is strictly later than
// the other's. Equal timestamps are not "newer"; ties favor the local copy
// during reconciliation.
func (s *Syncable) NewerThan(other *Syncable) bool {
	return s.UpdatedAt.After(other.UpdatedAt)
}
