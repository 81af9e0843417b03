package record

import (
	"context"

	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	apperr "github.com/medex/marketplace-api/pkg/errors"
	"github.com/medex/marketplace-api/pkg/event"
)

// Reason strings are part of the observable interface.
var (
	ErrUnknownRecord = apperr.NotFound("Record does not exist!")
	ErrInvalid       = apperr.Conflict("Record invalid!")
	ErrAccessStopped = apperr.Conflict("Record access stopped!")
	ErrIssuerOnly    = apperr.Unauthorized("Organization that issued the record only!")
	ErrOwnerOnly     = apperr.Unauthorized("Owner only!")
)

// Service addresses individual medical records: metadata reads and the two
// independent kill switches. Validity belongs to the issuing organization,
// the access stop to the patient; either one in its closed state blocks
// metadata reads.
type Service struct {
	store   *memory.Store
	emitter event.Emitter
}

func NewService(store *memory.Store, emitter event.Emitter) *Service {
	return &Service{
		store:   store,
		emitter: emitter,
	}
}

func (s *Service) GetMetadata(id uuid.UUID) (*model.RecordMetadata, error) {
	var meta model.RecordMetadata
	err := s.store.View(func(tx *memory.Tx) error {
		rec, ok := tx.Record(id)
		if !ok {
			return ErrUnknownRecord
		}
		if !rec.Valid {
			return ErrInvalid
		}
		if rec.AccessStopped {
			return ErrAccessStopped
		}
		meta = model.RecordMetadata{
			Patient:  rec.Patient,
			IssuedBy: rec.IssuedBy,
			Record:   rec.ID,
			Type:     rec.Type,
			URI:      rec.URI,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// ToggleValidity flips the issuer's validity flag. A removed organization
// no longer passes verification and so loses toggle authority over the
// records it issued.
func (s *Service) ToggleValidity(ctx context.Context, caller model.Address, id uuid.UUID) (bool, error) {
	var valid bool
	err := s.store.Update(func(tx *memory.Tx) error {
		rec, ok := tx.Record(id)
		if !ok {
			return ErrUnknownRecord
		}
		if caller != rec.IssuedBy || !tx.IsVerifiedOrganization(caller) {
			return ErrIssuerOnly
		}
		rec.Valid = !rec.Valid
		valid = rec.Valid
		tx.PutRecord(rec)
		return nil
	})
	return valid, err
}

// ToggleContractStopped flips the patient's emergency access stop.
func (s *Service) ToggleContractStopped(ctx context.Context, caller model.Address, id uuid.UUID) (bool, error) {
	var stopped bool
	err := s.store.Update(func(tx *memory.Tx) error {
		rec, ok := tx.Record(id)
		if !ok {
			return ErrUnknownRecord
		}
		if caller != rec.Patient {
			return ErrOwnerOnly
		}
		rec.AccessStopped = !rec.AccessStopped
		stopped = rec.AccessStopped
		tx.PutRecord(rec)
		return nil
	})
	return stopped, err
}
