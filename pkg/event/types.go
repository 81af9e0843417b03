package event

import "context"

// Domain event types. These names are part of the observable interface
// consumed by external collaborators.
const (
	OrganizationAdded   = "OrganizationAdded"
	OrganizationRemoved = "OrganizationRemoved"
	PatientAdded        = "PatientAdded"
	PatientRemoved      = "PatientRemoved"
	MedicalRecordAdded  = "MedicalRecordAdded"
	CreditMinted        = "CreditMinted"
	CreditReturned      = "CreditReturned"
	ListingAdded        = "ListingAdded"
	ListingRemoved      = "ListingRemoved"
	NewPurchase         = "NewPurchase"
)

// Emitter publishes a domain event after the state change it describes has
// committed. Emission failures are logged, never surfaced to the caller:
// the state change stands regardless.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{})
}

// NopEmitter discards events.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, interface{}) {}
