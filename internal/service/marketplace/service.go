package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/pkg/auth"
	apperr "github.com/medex/marketplace-api/pkg/errors"
	"github.com/medex/marketplace-api/pkg/event"
)

// Fixed settlement parameters, set at deployment and not runtime-mutable.
const (
	// MinPurchaseDays is deliberate friction against micro-scraping:
	// access is only sold in month-or-longer windows.
	MinPurchaseDays uint64 = 30

	sellerSharePct uint64 = 80
	issuerSharePct uint64 = 10
)

// Reason strings are part of the observable interface.
var (
	ErrPatientOnly     = apperr.Unauthorized("Patient only!")
	ErrNeedRecordTypes = apperr.Policy("Provide min 1 type of record that you wish to sell!")
	ErrNoMatchingTypes = apperr.Policy("No medical records of matching types to sell!")
	ErrUnknownListing  = apperr.NotFound("Listing does not exists!")
	ErrListingOwner    = apperr.Unauthorized("Only listing owner can perform this action!")
	ErrVerifiedOrgOnly = apperr.Unauthorized("Verified organization only!")
	ErrMinThirtyDays   = apperr.Policy("Required to purchase min 30 days of access!")
	ErrOrgTypeBlocked  = apperr.Policy("Organization type not allowed to purchase this listing!")
	ErrInsufficient    = apperr.Policy("Insufficient tokens!")
	ErrNoPurchase      = apperr.NotFound("No purchase found!")
)

var (
	purchasesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medmarket_purchases_total",
		Help: "Total listing purchases settled",
	})
	settlementVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medmarket_settlement_credits_total",
		Help: "Total credits moved through purchase settlement",
	})
)

// Service orchestrates the listing lifecycle and purchase settlement over
// the registries and the ledger. All of them share the one store, so a
// settlement is a single transaction: debit, three-way split, snapshot and
// grant either all land or none do.
type Service struct {
	store   *memory.Store
	emitter event.Emitter
	tokens  *auth.TokenService
	self    model.Address
}

// NewService wires the orchestrator. self is the marketplace's own ledger
// identity: commissions and settlement remainders accrue to it.
func NewService(store *memory.Store, emitter event.Emitter, tokens *auth.TokenService, self model.Address) *Service {
	return &Service{
		store:   store,
		emitter: emitter,
		tokens:  tokens,
		self:    self,
	}
}

func (s *Service) AddListing(ctx context.Context, caller model.Address, pricePerDay uint64, recordTypes []model.RecordType, allowOrgTypes []model.OrganizationType) (*model.Listing, error) {
	var listing model.Listing
	err := s.store.Update(func(tx *memory.Tx) error {
		if !tx.IsPatient(caller) {
			return ErrPatientOnly
		}
		if len(recordTypes) == 0 {
			return ErrNeedRecordTypes
		}
		if len(tx.PatientRecords(caller, recordTypes)) == 0 {
			return ErrNoMatchingTypes
		}

		listing = model.Listing{
			ID:            tx.NextListingID(),
			Owner:         caller,
			PricePerDay:   pricePerDay,
			RecordTypes:   recordTypes,
			AllowOrgTypes: allowOrgTypes,
			CreatedAt:     time.Now(),
		}
		tx.PutListing(listing)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, event.ListingAdded, listing)
	return &listing, nil
}

// GetListingDetails fails identically for removed and never-created ids.
func (s *Service) GetListingDetails(id uint64) (*model.Listing, error) {
	var listing model.Listing
	err := s.store.View(func(tx *memory.Tx) error {
		var ok bool
		listing, ok = tx.Listing(id)
		if !ok {
			return ErrUnknownListing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *Service) RemoveListing(ctx context.Context, caller model.Address, id uint64) error {
	var removed model.Listing
	err := s.store.Update(func(tx *memory.Tx) error {
		listing, ok := tx.Listing(id)
		if !ok {
			return ErrUnknownListing
		}
		if listing.Owner != caller {
			return ErrListingOwner
		}
		removed = listing
		tx.DeleteListing(id)
		return nil
	})
	if err != nil {
		return err
	}

	s.emitter.Emit(ctx, event.ListingRemoved, removed)
	return nil
}

// BuyListing settles a purchase: the buyer's credits are split 80/10/10
// between seller, issuing organization and marketplace, and the buyer
// receives a grant over a snapshot of the seller's matching records.
func (s *Service) BuyListing(ctx context.Context, caller model.Address, id uint64, days uint64) (*model.Purchase, error) {
	var purchase model.Purchase
	err := s.store.Update(func(tx *memory.Tx) error {
		buyerOrg, isOrg := tx.Organization(caller)
		if !isOrg {
			return ErrVerifiedOrgOnly
		}
		if days < MinPurchaseDays {
			return ErrMinThirtyDays
		}
		listing, ok := tx.Listing(id)
		if !ok {
			return ErrUnknownListing
		}
		if !listing.AllowsOrgType(buyerOrg.Type) {
			return ErrOrgTypeBlocked
		}

		cost := listing.PricePerDay * days
		if tx.Balance(caller) < cost {
			return ErrInsufficient
		}

		// Snapshot: matching records that are valid and access-enabled
		// right now. Later toggles do not touch the grant.
		var snapshot []uuid.UUID
		issuer := s.self
		for _, rec := range tx.PatientRecords(listing.Owner, listing.RecordTypes) {
			if !rec.Valid || rec.AccessStopped {
				continue
			}
			if len(snapshot) == 0 {
				issuer = rec.IssuedBy
			}
			snapshot = append(snapshot, rec.ID)
		}
		if len(snapshot) == 0 {
			// No record to take the issuer from; fall back to the
			// seller's registered issuing organization. If even that is
			// gone the royalty stays with the house.
			if p, ok := tx.Patient(listing.Owner); ok {
				issuer = p.IssuedBy
			}
		}

		now := time.Now()
		expiresAt := now.Add(time.Duration(days) * 24 * time.Hour)
		otp, err := s.tokens.IssueAccessToken(caller, listing.ID, snapshot, expiresAt)
		if err != nil {
			return apperr.Internal(err)
		}

		// Truncate each share; the remainder stays with the marketplace
		// so the deltas always sum to cost exactly.
		sellerShare := cost * sellerSharePct / 100
		issuerShare := cost * issuerSharePct / 100
		marketShare := cost - sellerShare - issuerShare

		tx.Debit(caller, cost)
		tx.Credit(listing.Owner, sellerShare)
		tx.Credit(issuer, issuerShare)
		tx.Credit(s.self, marketShare)

		purchase = model.Purchase{
			Buyer:     caller,
			Listing:   listing,
			RecordIDs: snapshot,
			OTP:       otp,
			Days:      days,
			Cost:      cost,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
		tx.PutPurchase(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}

	purchasesSettled.Inc()
	settlementVolume.Add(float64(purchase.Cost))
	s.emitter.Emit(ctx, event.NewPurchase, purchase)
	return &purchase, nil
}

// BuyerGetPurchaseDetails is caller-scoped: buyers only ever see their own
// grants.
func (s *Service) BuyerGetPurchaseDetails(caller model.Address, listingID uint64) (*model.Purchase, error) {
	var purchase model.Purchase
	err := s.store.View(func(tx *memory.Tx) error {
		var ok bool
		purchase, ok = tx.Purchase(caller, listingID)
		if !ok {
			return ErrNoPurchase
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// HasPurchasedAccessToRecord reports whether any of the buyer's unexpired
// grants covers the record.
func (s *Service) HasPurchasedAccessToRecord(buyer model.Address, recordID uuid.UUID) bool {
	now := time.Now()
	granted := false
	_ = s.store.View(func(tx *memory.Tx) error {
		for _, p := range tx.PurchasesByBuyer(buyer) {
			if p.Active(now) && p.Grants(recordID) {
				granted = true
				return nil
			}
		}
		return nil
	})
	return granted
}
