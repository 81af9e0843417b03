package model

import "time"

// Listing is a patient's standing offer to sell time-boxed access to a
// subset of their record types to certain organization types. IDs are
// assigned sequentially from 1 and never reused.
type Listing struct {
	ID            uint64             `json:"id"`
	Owner         Address            `json:"listing_owner"`
	PricePerDay   uint64             `json:"price_per_day"`
	RecordTypes   []RecordType       `json:"record_types"`
	AllowOrgTypes []OrganizationType `json:"allow_organization_types"`
	CreatedAt     time.Time          `json:"created_at"`
}

// AllowsOrgType reports whether buyers of the given type may purchase.
func (l *Listing) AllowsOrgType(t OrganizationType) bool {
	for _, a := range l.AllowOrgTypes {
		if a == t {
			return true
		}
	}
	return false
}

// HasRecordType reports whether the listing covers the given record type.
func (l *Listing) HasRecordType(t RecordType) bool {
	for _, r := range l.RecordTypes {
		if r == t {
			return true
		}
	}
	return false
}

type AddListingRequest struct {
	PricePerDay   *uint64 `json:"price_per_day" binding:"required"`
	RecordTypes   []uint8 `json:"record_types"`
	AllowOrgTypes []uint8 `json:"allow_organization_types"`
}

type BuyListingRequest struct {
	Days *uint64 `json:"days" binding:"required"`
}
