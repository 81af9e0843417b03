package ledger

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
	owner           = model.Address("org-genesis")
	marketplaceAddr = model.Address("marketplace-1")
)

func newTestService(t *testing.T) (*Service, *memory.Store, *event.Recorder) {
	t.Helper()
	store := memory.New(model.Organization{Address: owner, Type: model.OrgTypeHospital})
	require.NoError(t, store.Update(func(tx *memory.Tx) error {
		tx.PutPatient(model.Patient{Address: "patient-1", IssuedBy: owner})
		tx.PutOrganization(model.Organization{Address: "org-buyer", VerifiedBy: owner})
		return nil
	}))
	rec := event.NewRecorder()
	return NewService(store, rec, owner, marketplaceAddr), store, rec
}

func TestGetMTMintsHundredPerUnit(t *testing.T) {
	svc, _, rec := newTestService(t)

	res, err := svc.GetMT(context.Background(), "patient-1", 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Deposited)
	assert.Equal(t, uint64(100), res.Credits)
	assert.Equal(t, uint64(100), res.Balance)
	assert.Equal(t, uint64(100), svc.CheckMT("patient-1"))
	assert.Equal(t, 1, rec.Count(event.CreditMinted))
}

func TestGetMTAccumulates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetMT(ctx, "org-buyer", 2)
	require.NoError(t, err)
	_, err = svc.GetMT(ctx, "org-buyer", 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(300), svc.CheckMT("org-buyer"))
}

func TestGetMTRejectsStranger(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetMT(context.Background(), "rando", 1)
	assert.ErrorIs(t, err, ErrCallerNotAllowed)
	assert.EqualError(t, err, "Only patient, owner and organization can perform this action!")
}

func TestGetMTRejectsZeroDeposit(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetMT(context.Background(), "patient-1", 0)
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestGetMTAllowsOwner(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.GetMT(context.Background(), owner, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), res.Balance)
}

func TestCheckMTUnknownAddressIsZero(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.Zero(t, svc.CheckMT("ghost"))
}

func TestReturnMTChargesFee(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetMT(ctx, "patient-1", 1)
	require.NoError(t, err)

	res, err := svc.ReturnMT(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(90), res.Returned)
	assert.Equal(t, uint64(10), res.Fee)
	assert.Zero(t, svc.CheckMT("patient-1"))
	assert.Equal(t, uint64(10), svc.CheckMT(marketplaceAddr))
	assert.Equal(t, 1, rec.Count(event.CreditReturned))
}

func TestReturnMTFeeCappedAtBalance(t *testing.T) {
	svc, store, _ := newTestService(t)

	require.NoError(t, store.Update(func(tx *memory.Tx) error {
		tx.Credit("patient-1", 7)
		return nil
	}))

	res, err := svc.ReturnMT(context.Background(), "patient-1")
	require.NoError(t, err)
	assert.Zero(t, res.Returned)
	assert.Equal(t, uint64(7), res.Fee)
	assert.Equal(t, uint64(7), svc.CheckMT(marketplaceAddr))
}

func TestReturnMTRequiresBalance(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ReturnMT(context.Background(), "patient-1")
	assert.ErrorIs(t, err, ErrNoBalance)
	assert.EqualError(t, err, "No MT!")
}
