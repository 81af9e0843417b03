package record

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/pkg/event"
)

const issuer = model.Address("org-genesis")

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New(model.Organization{Address: issuer, Type: model.OrgTypeHospital})
	return NewService(store, event.NopEmitter{}), store
}

func seedRecord(t *testing.T, store *memory.Store) model.MedicalRecord {
	t.Helper()
	rec := model.MedicalRecord{
		ID:       uuid.New(),
		Patient:  "patient-1",
		IssuedBy: issuer,
		Type:     model.RecordTypeLab,
		URI:      "ipfs://lab-1",
		Valid:    true,
	}
	require.NoError(t, store.Update(func(tx *memory.Tx) error {
		tx.PutPatient(model.Patient{Address: "patient-1", IssuedBy: issuer})
		tx.AppendPatientRecord("patient-1", rec)
		return nil
	}))
	return rec
}

func TestGetMetadata(t *testing.T) {
	svc, store := newTestService(t)
	rec := seedRecord(t, store)

	meta, err := svc.GetMetadata(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, meta.Record)
	assert.Equal(t, rec.Patient, meta.Patient)
	assert.Equal(t, rec.IssuedBy, meta.IssuedBy)
	assert.Equal(t, rec.URI, meta.URI)
}

func TestGetMetadataUnknownRecord(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetMetadata(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestGetMetadataBlockedByFlags(t *testing.T) {
	svc, store := newTestService(t)
	rec := seedRecord(t, store)
	ctx := context.Background()

	valid, err := svc.ToggleValidity(ctx, issuer, rec.ID)
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = svc.GetMetadata(rec.ID)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.EqualError(t, err, "Record invalid!")

	// invalidity is reported before the access stop
	_, err = svc.ToggleContractStopped(ctx, "patient-1", rec.ID)
	require.NoError(t, err)
	_, err = svc.GetMetadata(rec.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	// back to valid, still stopped
	_, err = svc.ToggleValidity(ctx, issuer, rec.ID)
	require.NoError(t, err)
	_, err = svc.GetMetadata(rec.ID)
	assert.ErrorIs(t, err, ErrAccessStopped)
	assert.EqualError(t, err, "Record access stopped!")

	// reopen completely
	_, err = svc.ToggleContractStopped(ctx, "patient-1", rec.ID)
	require.NoError(t, err)
	_, err = svc.GetMetadata(rec.ID)
	assert.NoError(t, err)
}

func TestToggleValidityIssuerOnly(t *testing.T) {
	svc, store := newTestService(t)
	rec := seedRecord(t, store)
	ctx := context.Background()

	_, err := svc.ToggleValidity(ctx, "patient-1", rec.ID)
	assert.ErrorIs(t, err, ErrIssuerOnly)
	assert.EqualError(t, err, "Organization that issued the record only!")

	_, err = svc.ToggleValidity(ctx, issuer, uuid.New())
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestToggleValidityRequiresLiveVerification(t *testing.T) {
	svc, store := newTestService(t)
	rec := seedRecord(t, store)

	// deregistering the issuer revokes its toggle authority
	require.NoError(t, store.Update(func(tx *memory.Tx) error {
		tx.DeleteOrganization(issuer)
		return nil
	}))

	_, err := svc.ToggleValidity(context.Background(), issuer, rec.ID)
	assert.ErrorIs(t, err, ErrIssuerOnly)
}

func TestToggleContractStoppedOwnerOnly(t *testing.T) {
	svc, store := newTestService(t)
	rec := seedRecord(t, store)
	ctx := context.Background()

	_, err := svc.ToggleContractStopped(ctx, issuer, rec.ID)
	assert.ErrorIs(t, err, ErrOwnerOnly)
	assert.EqualError(t, err, "Owner only!")

	stopped, err := svc.ToggleContractStopped(ctx, "patient-1", rec.ID)
	require.NoError(t, err)
	assert.True(t, stopped)

	stopped, err = svc.ToggleContractStopped(ctx, "patient-1", rec.ID)
	require.NoError(t, err)
	assert.False(t, stopped)
}
