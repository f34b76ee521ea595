package models

import "time"

// Human is a row in the humans table. Most columns are owned by the
// upstream services; this service only writes the identity fields during
// auth sync (upsert on sign-in, delete on account removal).
type Human struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
