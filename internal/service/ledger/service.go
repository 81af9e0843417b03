package ledger

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/internal/service/authz"
	apperr "github.com/medex/marketplace-api/pkg/errors"
	"github.com/medex/marketplace-api/pkg/event"
)

// Fixed economy parameters, set at deployment and not runtime-mutable.
const (
	// CreditsPerUnit credits are minted per deposited native unit.
	CreditsPerUnit uint64 = 100
	// RedemptionFee credits accrue to the marketplace on each return.
	RedemptionFee uint64 = 10
)

// Reason strings are part of the observable interface.
var (
	ErrCallerNotAllowed = apperr.Unauthorized("Only patient, owner and organization can perform this action!")
	ErrNoValue          = apperr.Policy("No value sent!")
	ErrNoBalance        = apperr.Conflict("No MT!")
)

var (
	creditsMinted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medmarket_credits_minted_total",
		Help: "Total credits minted against native deposits",
	})
	creditsReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medmarket_credits_returned_total",
		Help: "Total credits redeemed back to native value",
	})
)

// MintResult reports a deposit.
type MintResult struct {
	Address   model.Address `json:"address"`
	Deposited uint64        `json:"deposited"`
	Credits   uint64        `json:"credits"`
	Balance   uint64        `json:"balance"`
}

// ReturnResult reports a redemption. Returned is denominated in credits;
// the payment adapter converts it back to native value at the fixed rate.
type ReturnResult struct {
	Address  model.Address `json:"address"`
	Returned uint64        `json:"credits_returned"`
	Fee      uint64        `json:"fee"`
}

// Service is the non-transferable credit ledger. Balances move only
// through mint, redemption and marketplace settlement; there is no
// transfer operation.
type Service struct {
	store       *memory.Store
	emitter     event.Emitter
	owner       model.Address
	marketplace model.Address
}

// NewService wires the ledger. owner is the seed organization's address;
// marketplace is the identity redemption fees accrue to.
func NewService(store *memory.Store, emitter event.Emitter, owner, marketplace model.Address) *Service {
	return &Service{
		store:       store,
		emitter:     emitter,
		owner:       owner,
		marketplace: marketplace,
	}
}

// GetMT mints amount*CreditsPerUnit credits against a native deposit.
func (s *Service) GetMT(ctx context.Context, caller model.Address, amount uint64) (*MintResult, error) {
	var res MintResult
	err := s.store.Update(func(tx *memory.Tx) error {
		if !authz.CanUseLedger(tx, caller, s.owner) {
			return ErrCallerNotAllowed
		}
		if amount == 0 {
			return ErrNoValue
		}

		credits := amount * CreditsPerUnit
		tx.Credit(caller, credits)
		res = MintResult{
			Address:   caller,
			Deposited: amount,
			Credits:   credits,
			Balance:   tx.Balance(caller),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	creditsMinted.Add(float64(res.Credits))
	s.emitter.Emit(ctx, event.CreditMinted, res)
	return &res, nil
}

// CheckMT returns the caller's balance; unknown identities hold zero.
func (s *Service) CheckMT(caller model.Address) uint64 {
	var bal uint64
	_ = s.store.View(func(tx *memory.Tx) error {
		bal = tx.Balance(caller)
		return nil
	})
	return bal
}

// ReturnMT redeems the caller's entire balance. The redemption fee
// accrues to the marketplace's own balance; the remainder leaves the
// ledger as native value.
func (s *Service) ReturnMT(ctx context.Context, caller model.Address) (*ReturnResult, error) {
	var res ReturnResult
	err := s.store.Update(func(tx *memory.Tx) error {
		if !authz.CanUseLedger(tx, caller, s.owner) {
			return ErrCallerNotAllowed
		}
		bal := tx.Balance(caller)
		if bal == 0 {
			return ErrNoBalance
		}

		fee := RedemptionFee
		if fee > bal {
			fee = bal
		}
		tx.ZeroBalance(caller)
		tx.Credit(s.marketplace, fee)
		res = ReturnResult{
			Address:  caller,
			Returned: bal - fee,
			Fee:      fee,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	creditsReturned.Add(float64(res.Returned))
	s.emitter.Emit(ctx, event.CreditReturned, res)
	return &res, nil
}
