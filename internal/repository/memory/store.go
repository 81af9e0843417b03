package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/model"
)

// Store holds all marketplace core state behind a single lock. Every public
// operation of the registries, the ledger and the marketplace runs as one
// View or Update transaction, so mutating calls never interleave and each
// is atomic with respect to every other.
//
// Transaction functions must validate before they mutate: an error returned
// from a function that has not written anything leaves the state untouched,
// which is how failed calls get their full-rollback guarantee.
type Store struct {
	mu sync.RWMutex
	st state
}

type state struct {
	organizations map[model.Address]model.Organization
	patients      map[model.Address]model.Patient
	records       map[uuid.UUID]model.MedicalRecord
	listings      map[uint64]model.Listing
	lastListingID uint64
	purchases     map[PurchaseKey]model.Purchase
	balances      map[model.Address]uint64
}

// PurchaseKey identifies a buyer's grant for one listing. A re-purchase of
// the same listing by the same buyer overwrites the prior grant.
type PurchaseKey struct {
	Buyer     model.Address
	ListingID uint64
}

// New creates an empty store with the seed organization registered. The
// seed is its own verifier, mirroring the deployer-as-root admission chain.
func New(seed model.Organization) *Store {
	if seed.VerifiedBy.IsZero() {
		seed.VerifiedBy = seed.Address
	}
	s := &Store{
		st: state{
			organizations: make(map[model.Address]model.Organization),
			patients:      make(map[model.Address]model.Patient),
			records:       make(map[uuid.UUID]model.MedicalRecord),
			listings:      make(map[uint64]model.Listing),
			purchases:     make(map[PurchaseKey]model.Purchase),
			balances:      make(map[model.Address]uint64),
		},
	}
	s.st.organizations[seed.Address] = seed
	return s
}

// Tx is a handle onto the locked state. It is only valid for the duration
// of the View/Update call that produced it.
type Tx struct {
	st *state
}

// View runs fn under the read lock.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{st: &s.st})
}

// Update runs fn under the write lock.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{st: &s.st})
}
