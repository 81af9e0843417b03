package organization

import (
	"context"
	"time"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/internal/service/authz"
	apperr "github.com/medex/marketplace-api/pkg/errors"
	"github.com/medex/marketplace-api/pkg/event"
)

// Reason strings are part of the observable interface.
var (
	ErrVerifiedOrgOnly  = apperr.Unauthorized("Verified organization only!")
	ErrAlreadyAdded     = apperr.Conflict("Organization already added!")
	ErrNotEligible      = apperr.Unauthorized("Org not eligible to remove organization!")
	ErrUnknownOrg       = apperr.NotFound("Organization does not exist!")
	ErrAddressIsPatient = apperr.Conflict("Address already registered as patient!")
)

// Service is the organization registry. Admission is rooted at the seed
// organization registered when the store was created.
type Service struct {
	store   *memory.Store
	emitter event.Emitter
	seed    model.Address
}

func NewService(store *memory.Store, emitter event.Emitter, seed model.Address) *Service {
	return &Service{
		store:   store,
		emitter: emitter,
		seed:    seed,
	}
}

func (s *Service) AddNewOrganization(ctx context.Context, caller, addr model.Address, orgType model.OrganizationType, location, name string) (*model.Organization, error) {
	var org model.Organization
	err := s.store.Update(func(tx *memory.Tx) error {
		if !tx.IsVerifiedOrganization(caller) {
			return ErrVerifiedOrgOnly
		}
		if _, exists := tx.Organization(addr); exists {
			return ErrAlreadyAdded
		}
		if tx.IsPatient(addr) {
			return ErrAddressIsPatient
		}

		org = model.Organization{
			Address:    addr,
			Type:       orgType,
			VerifiedBy: caller,
			Location:   location,
			Name:       name,
			AddedAt:    time.Now(),
		}
		tx.PutOrganization(org)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, event.OrganizationAdded, org)
	return &org, nil
}

func (s *Service) RemoveOrganization(ctx context.Context, caller, addr model.Address) error {
	var removed model.Organization
	err := s.store.Update(func(tx *memory.Tx) error {
		org, ok := tx.Organization(addr)
		if !ok {
			return ErrUnknownOrg
		}
		if !authz.CanRemoveOrganization(org, caller, s.seed) {
			return ErrNotEligible
		}

		// Listings and records tied to the organization remain; the
		// address just stops passing verification, which is what
		// revokes its future toggle and admission authority.
		removed = org
		tx.DeleteOrganization(addr)
		return nil
	})
	if err != nil {
		return err
	}

	s.emitter.Emit(ctx, event.OrganizationRemoved, removed)
	return nil
}

func (s *Service) GetOrganizationType(addr model.Address) (model.OrganizationType, error) {
	org, err := s.GetOrganizationProfile(addr)
	if err != nil {
		return 0, err
	}
	return org.Type, nil
}

func (s *Service) GetOrganizationProfile(addr model.Address) (*model.Organization, error) {
	var org model.Organization
	err := s.store.View(func(tx *memory.Tx) error {
		var ok bool
		org, ok = tx.Organization(addr)
		if !ok {
			return ErrUnknownOrg
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// IsVerifiedOrganization reports whether addr passed the admission chain.
func (s *Service) IsVerifiedOrganization(addr model.Address) bool {
	verified := false
	_ = s.store.View(func(tx *memory.Tx) error {
		verified = tx.IsVerifiedOrganization(addr)
		return nil
	})
	return verified
}
