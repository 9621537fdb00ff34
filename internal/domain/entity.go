// Package domain contains the catalog entities shared by the store, services and API.
package domain

import "time"

// Entity carries the identity and audit timestamps every persisted row has.
type Entity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (e *Entity) InitTimestamps() {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
}

// Touch updates UpdatedAt. Call it whenever a stored field changes.
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}
