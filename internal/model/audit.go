package model

import "time"

// Audit carries the server-stamped provenance metadata every entity shares.
// Clients can never set these fields; the repository layer stamps them on
// create and update.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	CreatedBy uint      `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy *uint     `json:"updated_by"`
}
