package model

import "time"

// OrganizationType classifies a verified organization. The numeric
// values are part of the wire format for listings and purchases.
type OrganizationType uint8

const (
	OrgTypeHospital OrganizationType = iota
	OrgTypeResearch
	OrgTypePharmacy
)

func (t OrganizationType) String() string {
	switch t {
	case OrgTypeHospital:
		return "hospital"
	case OrgTypeResearch:
		return "research"
	case OrgTypePharmacy:
		return "pharmacy"
	default:
		return "unknown"
	}
}

// Organization is a verified marketplace participant. VerifiedBy records
// the admitting organization, forming an admission chain rooted at the
// registry seed.
type Organization struct {
	Address    Address          `json:"address"`
	Type       OrganizationType `json:"organization_type"`
	VerifiedBy Address          `json:"verified_by"`
	Location   string           `json:"location"`
	Name       string           `json:"name"`
	AddedAt    time.Time        `json:"added_at"`
}

type AddOrganizationRequest struct {
	Address  string `json:"address" binding:"required,address"`
	Type     *uint8 `json:"organization_type" binding:"required"`
	Location string `json:"location" binding:"required"`
	Name     string `json:"name" binding:"required"`
}
