package memory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medex/marketplace-api/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(model.Organization{
		Address: "org-genesis",
		Type:    model.OrgTypeHospital,
		Name:    "Genesis Hospital",
	})
}

func TestSeedOrganizationIsVerified(t *testing.T) {
	s := newTestStore(t)

	err := s.View(func(tx *Tx) error {
		assert.True(t, tx.IsVerifiedOrganization("org-genesis"))
		org, ok := tx.Organization("org-genesis")
		require.True(t, ok)
		assert.Equal(t, model.Address("org-genesis"), org.VerifiedBy)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdatePropagatesError(t *testing.T) {
	s := newTestStore(t)
	sentinel := errors.New("rejected")

	err := s.Update(func(tx *Tx) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestListingIDsSequentialAndNeverReused(t *testing.T) {
	s := newTestStore(t)

	var first, second, third uint64
	err := s.Update(func(tx *Tx) error {
		first = tx.NextListingID()
		tx.PutListing(model.Listing{ID: first, Owner: "patient-1"})
		second = tx.NextListingID()
		tx.PutListing(model.Listing{ID: second, Owner: "patient-1"})
		tx.DeleteListing(second)
		third = tx.NextListingID()
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, uint64(3), third)
}

func TestDeleteListingsOwnedBy(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *Tx) error {
		tx.PutListing(model.Listing{ID: tx.NextListingID(), Owner: "patient-1"})
		tx.PutListing(model.Listing{ID: tx.NextListingID(), Owner: "patient-2"})
		tx.PutListing(model.Listing{ID: tx.NextListingID(), Owner: "patient-1"})
		tx.DeleteListingsOwnedBy("patient-1")

		_, ok := tx.Listing(1)
		assert.False(t, ok)
		_, ok = tx.Listing(3)
		assert.False(t, ok)
		_, ok = tx.Listing(2)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestLedgerCreditDebit(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *Tx) error {
		assert.Zero(t, tx.Balance("buyer"))

		tx.Credit("buyer", 100)
		assert.Equal(t, uint64(100), tx.Balance("buyer"))

		assert.False(t, tx.Debit("buyer", 101))
		assert.Equal(t, uint64(100), tx.Balance("buyer"))

		assert.True(t, tx.Debit("buyer", 40))
		assert.Equal(t, uint64(60), tx.Balance("buyer"))

		assert.Equal(t, uint64(60), tx.ZeroBalance("buyer"))
		assert.Zero(t, tx.Balance("buyer"))
		return nil
	})
	require.NoError(t, err)
}

func TestPatientRecordsFilterInsertionOrder(t *testing.T) {
	s := newTestStore(t)

	ids := make([]uuid.UUID, 3)
	err := s.Update(func(tx *Tx) error {
		tx.PutPatient(model.Patient{Address: "patient-1"})
		for i, rt := range []model.RecordType{model.RecordTypeLab, model.RecordTypeImaging, model.RecordTypeLab} {
			ids[i] = uuid.New()
			tx.AppendPatientRecord("patient-1", model.MedicalRecord{
				ID:      ids[i],
				Patient: "patient-1",
				Type:    rt,
				Valid:   true,
			})
		}
		return nil
	})
	require.NoError(t, err)

	err = s.View(func(tx *Tx) error {
		labs := tx.PatientRecords("patient-1", []model.RecordType{model.RecordTypeLab})
		require.Len(t, labs, 2)
		assert.Equal(t, ids[0], labs[0].ID)
		assert.Equal(t, ids[2], labs[1].ID)

		all := tx.PatientRecords("patient-1", nil)
		assert.Len(t, all, 3)
		return nil
	})
	require.NoError(t, err)
}

func TestPurchasesByBuyerSorted(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *Tx) error {
		tx.PutPurchase(model.Purchase{Buyer: "org-a", Listing: model.Listing{ID: 3}})
		tx.PutPurchase(model.Purchase{Buyer: "org-a", Listing: model.Listing{ID: 1}})
		tx.PutPurchase(model.Purchase{Buyer: "org-b", Listing: model.Listing{ID: 2}})
		return nil
	})
	require.NoError(t, err)

	err = s.View(func(tx *Tx) error {
		got := tx.PurchasesByBuyer("org-a")
		require.Len(t, got, 2)
		assert.Equal(t, uint64(1), got[0].Listing.ID)
		assert.Equal(t, uint64(3), got[1].Listing.ID)
		return nil
	})
	require.NoError(t, err)
}
