package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/pkg/event"
)

const (
	seedOrg         = model.Address("org-genesis")
	marketplaceAddr = model.Address("marketplace-1")
)

func newTestService(t *testing.T) (*Service, *memory.Store, *event.Recorder) {
	t.Helper()
	store := memory.New(model.Organization{
		Address: seedOrg,
		Type:    model.OrgTypeHospital,
		Name:    "Genesis Hospital",
	})
	rec := event.NewRecorder()
	return NewService(store, rec, marketplaceAddr), store, rec
}

func addOrg(t *testing.T, store *memory.Store, addr model.Address) {
	t.Helper()
	require.NoError(t, store.Update(func(tx *memory.Tx) error {
		tx.PutOrganization(model.Organization{Address: addr, VerifiedBy: seedOrg})
		return nil
	}))
}

func TestAddNewPatient(t *testing.T) {
	svc, _, rec := newTestService(t)

	p, err := svc.AddNewPatient(context.Background(), seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)
	assert.Equal(t, model.Address("patient-1"), p.Address)
	assert.Equal(t, seedOrg, p.IssuedBy)
	assert.True(t, svc.IsPatient("patient-1"))
	assert.Equal(t, 1, rec.Count(event.PatientAdded))
}

func TestAddNewPatientRequiresVerifiedOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddNewPatient(context.Background(), "rando", "patient-1", 34, "F", "CH")
	assert.ErrorIs(t, err, ErrVerifiedOrgOnly)
	assert.EqualError(t, err, "Verified organization only")
}

func TestAddNewPatientRejectsDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)

	_, err = svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	assert.ErrorIs(t, err, ErrAlreadyAdded)
}

func TestAddNewPatientRejectsOrganizationAddress(t *testing.T) {
	svc, store, _ := newTestService(t)
	addOrg(t, store, "org-a")

	_, err := svc.AddNewPatient(context.Background(), seedOrg, "org-a", 40, "M", "DE")
	assert.ErrorIs(t, err, ErrAddressIsOrg)
}

func TestGetPatientProfileAccess(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	addOrg(t, store, "org-other")

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)

	for _, caller := range []model.Address{"patient-1", seedOrg, marketplaceAddr} {
		p, err := svc.GetPatientProfile(caller, "patient-1")
		require.NoError(t, err, "caller %s", caller)
		assert.Equal(t, uint(34), p.Age)
	}

	_, err = svc.GetPatientProfile("org-other", "patient-1")
	assert.ErrorIs(t, err, ErrProfileAccess)
	assert.EqualError(t, err, "Only patient, issued by organization and marketplace can access")

	_, err = svc.GetPatientProfile("patient-1", "ghost")
	assert.ErrorIs(t, err, ErrUnknownPatient)
}

func TestAddNewMedicalRecordByOrganization(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)

	r, err := svc.AddNewMedicalRecord(ctx, seedOrg, seedOrg, "patient-1", model.RecordTypeLab, "ipfs://lab-1")
	require.NoError(t, err)
	assert.Equal(t, model.Address("patient-1"), r.Patient)
	assert.Equal(t, seedOrg, r.IssuedBy)
	assert.True(t, r.Valid)
	assert.False(t, r.AccessStopped)
	assert.Equal(t, 1, rec.Count(event.MedicalRecordAdded))
}

func TestAddNewMedicalRecordByPatient(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)

	r, err := svc.AddNewMedicalRecord(ctx, "patient-1", seedOrg, "patient-1", model.RecordTypeImaging, "ipfs://img-1")
	require.NoError(t, err)
	assert.Equal(t, seedOrg, r.IssuedBy)
}

func TestAddNewMedicalRecordAuthorizationChain(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	addOrg(t, store, "org-other")

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)
	_, err = svc.AddNewPatient(ctx, seedOrg, "patient-2", 56, "M", "DE")
	require.NoError(t, err)

	tests := []struct {
		name     string
		caller   model.Address
		issuedBy model.Address
		patient  model.Address
		want     error
		reason   string
	}{
		{
			name:   "stranger cannot add records",
			caller: "rando", issuedBy: seedOrg, patient: "patient-1",
			want: ErrRecordCaller, reason: "Only patient and verified organization can add records",
		},
		{
			name:   "organization must issue under its own name",
			caller: seedOrg, issuedBy: "org-other", patient: "patient-1",
			want: ErrRecordOrgMismatch, reason: "Associated org must be same",
		},
		{
			name:   "organization target must be a patient",
			caller: seedOrg, issuedBy: seedOrg, patient: "ghost",
			want: ErrRecordNotPatient, reason: "Associated user is not patient",
		},
		{
			name:   "patient may only file for itself",
			caller: "patient-1", issuedBy: seedOrg, patient: "patient-2",
			want: ErrRecordPatientMismatch, reason: "Associated patient must be same",
		},
		{
			name:   "issuing organization must be verified",
			caller: "patient-1", issuedBy: "org-ghost", patient: "patient-1",
			want: ErrRecordOrgNotVerified, reason: "Associated org is not verified",
		},
		{
			name:   "patient bound to its registered issuer",
			caller: "patient-1", issuedBy: "org-other", patient: "patient-1",
			want: ErrRecordOrgMismatch, reason: "Associated org must be same",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddNewMedicalRecord(ctx, tt.caller, tt.issuedBy, tt.patient, model.RecordTypeGeneral, "ipfs://x")
			assert.ErrorIs(t, err, tt.want)
			assert.EqualError(t, err, tt.reason)
		})
	}
}

func TestGetMedicalRecordsFiltered(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)

	for _, rt := range []model.RecordType{model.RecordTypeLab, model.RecordTypeImaging, model.RecordTypeLab} {
		_, err = svc.AddNewMedicalRecord(ctx, seedOrg, seedOrg, "patient-1", rt, "ipfs://x")
		require.NoError(t, err)
	}

	labs, err := svc.GetMedicalRecords("patient-1", []model.RecordType{model.RecordTypeLab})
	require.NoError(t, err)
	assert.Len(t, labs, 2)

	all, err := svc.GetMedicalRecords("patient-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.GetMedicalRecords("ghost", nil)
	assert.ErrorIs(t, err, ErrUnknownPatient)
}

func TestRemovePatient(t *testing.T) {
	svc, store, rec := newTestService(t)
	ctx := context.Background()
	addOrg(t, store, "org-other")

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)

	// neither strangers nor unrelated organizations may remove
	err = svc.RemovePatient(ctx, "org-other", "patient-1")
	assert.ErrorIs(t, err, ErrCannotRemove)
	assert.EqualError(t, err, "User cannot remove patient!")

	// the issuing organization may
	require.NoError(t, svc.RemovePatient(ctx, seedOrg, "patient-1"))
	assert.False(t, svc.IsPatient("patient-1"))
	assert.Equal(t, 1, rec.Count(event.PatientRemoved))

	err = svc.RemovePatient(ctx, seedOrg, "patient-1")
	assert.ErrorIs(t, err, ErrUnknownPatient)
}

func TestRemovePatientDropsListings(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddNewPatient(ctx, seedOrg, "patient-1", 34, "F", "CH")
	require.NoError(t, err)

	require.NoError(t, store.Update(func(tx *memory.Tx) error {
		tx.PutListing(model.Listing{ID: tx.NextListingID(), Owner: "patient-1"})
		return nil
	}))

	require.NoError(t, svc.RemovePatient(ctx, "patient-1", "patient-1"))

	require.NoError(t, store.View(func(tx *memory.Tx) error {
		_, ok := tx.Listing(1)
		assert.False(t, ok)
		return nil
	}))
}
