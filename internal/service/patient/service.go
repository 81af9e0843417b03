package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/internal/service/authz"
	apperr "github.com/medex/marketplace-api/pkg/errors"
	"github.com/medex/marketplace-api/pkg/event"
)

// Reason strings are part of the observable interface.
var (
	ErrVerifiedOrgOnly = apperr.Unauthorized("Verified organization only")
	ErrAlreadyAdded    = apperr.Conflict("Patient already added!")
	ErrAddressIsOrg    = apperr.Conflict("Address already registered as organization!")
	ErrUnknownPatient  = apperr.NotFound("Patient does not exist!")
	ErrProfileAccess   = apperr.Unauthorized("Only patient, issued by organization and marketplace can access")
	ErrCannotRemove    = apperr.Unauthorized("User cannot remove patient!")

	ErrRecordCaller          = apperr.Unauthorized("Only patient and verified organization can add records")
	ErrRecordOrgMismatch     = apperr.Unauthorized("Associated org must be same")
	ErrRecordNotPatient      = apperr.Unauthorized("Associated user is not patient")
	ErrRecordPatientMismatch = apperr.Unauthorized("Associated patient must be same")
	ErrRecordOrgNotVerified  = apperr.Unauthorized("Associated org is not verified")
)

// Service is the patient registry, including the per-patient medical
// record index.
type Service struct {
	store       *memory.Store
	emitter     event.Emitter
	marketplace model.Address
}

// NewService wires the registry. marketplace is the identity internal
// marketplace calls present when reading profiles.
func NewService(store *memory.Store, emitter event.Emitter, marketplace model.Address) *Service {
	return &Service{
		store:       store,
		emitter:     emitter,
		marketplace: marketplace,
	}
}

func (s *Service) AddNewPatient(ctx context.Context, caller, addr model.Address, age uint, gender, country string) (*model.Patient, error) {
	var p model.Patient
	err := s.store.Update(func(tx *memory.Tx) error {
		if !tx.IsVerifiedOrganization(caller) {
			return ErrVerifiedOrgOnly
		}
		if tx.IsPatient(addr) {
			return ErrAlreadyAdded
		}
		if _, isOrg := tx.Organization(addr); isOrg {
			return ErrAddressIsOrg
		}

		p = model.Patient{
			Address:  addr,
			Age:      age,
			Gender:   gender,
			Country:  country,
			IssuedBy: caller,
			AddedAt:  time.Now(),
		}
		tx.PutPatient(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, event.PatientAdded, p)
	return &p, nil
}

func (s *Service) GetPatientProfile(caller, addr model.Address) (*model.Patient, error) {
	var p model.Patient
	err := s.store.View(func(tx *memory.Tx) error {
		var ok bool
		p, ok = tx.Patient(addr)
		if !ok {
			return ErrUnknownPatient
		}
		if !authz.CanReadPatientProfile(p, caller, s.marketplace) {
			return ErrProfileAccess
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddNewMedicalRecord runs the record authorization chain. The check
// order is load-bearing: interoperating suites assert which reason fires
// for each bad-input combination.
func (s *Service) AddNewMedicalRecord(ctx context.Context, caller, issuedBy, patientAddr model.Address, recordType model.RecordType, uri string) (*model.MedicalRecord, error) {
	var rec model.MedicalRecord
	err := s.store.Update(func(tx *memory.Tx) error {
		callerIsPatient := tx.IsPatient(caller)
		if !callerIsPatient && !tx.IsVerifiedOrganization(caller) {
			return ErrRecordCaller
		}

		if !callerIsPatient {
			// Organizations may only issue records under their own name.
			if issuedBy != caller {
				return ErrRecordOrgMismatch
			}
			if !tx.IsPatient(patientAddr) {
				return ErrRecordNotPatient
			}
		} else if patientAddr != caller {
			return ErrRecordPatientMismatch
		}

		if !tx.IsVerifiedOrganization(issuedBy) {
			return ErrRecordOrgNotVerified
		}

		if callerIsPatient {
			// Patients may only file records under their registered
			// issuing organization.
			p, _ := tx.Patient(caller)
			if issuedBy != p.IssuedBy {
				return ErrRecordOrgMismatch
			}
		}

		rec = model.MedicalRecord{
			ID:       uuid.New(),
			Patient:  patientAddr,
			IssuedBy: issuedBy,
			Type:     recordType,
			URI:      uri,
			Valid:    true,
			AddedAt:  time.Now(),
		}
		tx.AppendPatientRecord(patientAddr, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, event.MedicalRecordAdded, rec)
	return &rec, nil
}

// GetMedicalRecords returns the patient's records whose type is in
// typeFilter, or all of them when the filter is empty. Insertion order.
func (s *Service) GetMedicalRecords(patientAddr model.Address, typeFilter []model.RecordType) ([]model.MedicalRecord, error) {
	var records []model.MedicalRecord
	err := s.store.View(func(tx *memory.Tx) error {
		if !tx.IsPatient(patientAddr) {
			return ErrUnknownPatient
		}
		records = tx.PatientRecords(patientAddr, typeFilter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// RemovePatient deregisters the patient and drops their listings so
// nothing dependent stays purchasable. Records remain (they are never
// deleted, only flagged).
func (s *Service) RemovePatient(ctx context.Context, caller, addr model.Address) error {
	var removed model.Patient
	err := s.store.Update(func(tx *memory.Tx) error {
		p, ok := tx.Patient(addr)
		if !ok {
			return ErrUnknownPatient
		}
		if !authz.CanRemovePatient(p, caller) {
			return ErrCannotRemove
		}

		removed = p
		tx.DeletePatient(addr)
		tx.DeleteListingsOwnedBy(addr)
		return nil
	})
	if err != nil {
		return err
	}

	s.emitter.Emit(ctx, event.PatientRemoved, removed)
	return nil
}

func (s *Service) IsPatient(addr model.Address) bool {
	isPatient := false
	_ = s.store.View(func(tx *memory.Tx) error {
		isPatient = tx.IsPatient(addr)
		return nil
	})
	return isPatient
}
