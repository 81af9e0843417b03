package model

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is a buyer-specific access grant produced by a successful
// listing buy. Listing and RecordIDs are snapshots taken at settlement
// time; later record toggles do not retroactively edit the grant.
type Purchase struct {
	Buyer     Address     `json:"buyer"`
	Listing   Listing     `json:"listing"`
	RecordIDs []uuid.UUID `json:"medical_record_pointers"`
	OTP       string      `json:"otp"`
	Days      uint64      `json:"days"`
	Cost      uint64      `json:"cost"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// Active reports whether the grant is still inside its purchased window.
func (p *Purchase) Active(now time.Time) bool {
	return now.Before(p.ExpiresAt)
}

// Grants reports whether the grant covers the given record.
func (p *Purchase) Grants(recordID uuid.UUID) bool {
	for _, id := range p.RecordIDs {
		if id == recordID {
			return true
		}
	}
	return false
}
