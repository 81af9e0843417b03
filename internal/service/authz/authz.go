package authz

import (
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
)

// Capability predicates shared across the registries, the ledger and the
// marketplace. Keeping them in one place stops the recurring allow-lists
// from drifting between call sites.

// CanUseLedger: registered patient, verified organization, or the service
// owner (the seed organization's address).
func CanUseLedger(tx *memory.Tx, caller, owner model.Address) bool {
	return caller == owner || tx.IsPatient(caller) || tx.IsVerifiedOrganization(caller)
}

// CanReadPatientProfile: the patient itself, its issuing organization, or
// the marketplace identity.
func CanReadPatientProfile(patient model.Patient, caller, marketplace model.Address) bool {
	return caller == patient.Address || caller == patient.IssuedBy || caller == marketplace
}

// CanRemovePatient: the patient itself or its issuing organization.
func CanRemovePatient(patient model.Patient, caller model.Address) bool {
	return caller == patient.Address || caller == patient.IssuedBy
}

// CanRemoveOrganization: the organization itself, its verifier, or the
// seed organization.
func CanRemoveOrganization(org model.Organization, caller, seed model.Address) bool {
	return caller == org.Address || caller == org.VerifiedBy || caller == seed
}
