package memory

import "github.com/medex/marketplace-api/internal/model"

// The balance map is the non-transferable credit ledger. Credit and Debit
// are the only mutation primitives; no general transfer exists, so credits
// can only move through marketplace-mediated settlement.

func (tx *Tx) Balance(addr model.Address) uint64 {
	return tx.st.balances[addr]
}

func (tx *Tx) Credit(addr model.Address, amount uint64) {
	tx.st.balances[addr] += amount
}

// Debit removes amount from addr's balance. It reports false and leaves
// the ledger untouched when the balance is insufficient.
func (tx *Tx) Debit(addr model.Address, amount uint64) bool {
	if tx.st.balances[addr] < amount {
		return false
	}
	tx.st.balances[addr] -= amount
	return true
}

// ZeroBalance empties addr's ledger entry and returns what it held.
func (tx *Tx) ZeroBalance(addr model.Address) uint64 {
	bal := tx.st.balances[addr]
	delete(tx.st.balances, addr)
	return bal
}
