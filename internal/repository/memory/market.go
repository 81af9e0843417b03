package memory

import (
	"sort"

	"github.com/medex/marketplace-api/internal/model"
)

// NextListingID hands out the next sequential listing id, starting at 1.
// IDs of removed listings are never reused.
func (tx *Tx) NextListingID() uint64 {
	tx.st.lastListingID++
	return tx.st.lastListingID
}

func (tx *Tx) Listing(id uint64) (model.Listing, bool) {
	l, ok := tx.st.listings[id]
	if !ok {
		return model.Listing{}, false
	}
	return cloneListing(l), true
}

func (tx *Tx) PutListing(l model.Listing) {
	tx.st.listings[l.ID] = cloneListing(l)
}

func (tx *Tx) DeleteListing(id uint64) {
	delete(tx.st.listings, id)
}

// DeleteListingsOwnedBy drops every listing of the given owner. Used when
// a patient is removed so dependent listings stop being purchasable.
func (tx *Tx) DeleteListingsOwnedBy(owner model.Address) {
	for id, l := range tx.st.listings {
		if l.Owner == owner {
			delete(tx.st.listings, id)
		}
	}
}

func (tx *Tx) Purchase(buyer model.Address, listingID uint64) (model.Purchase, bool) {
	p, ok := tx.st.purchases[PurchaseKey{Buyer: buyer, ListingID: listingID}]
	return p, ok
}

func (tx *Tx) PutPurchase(p model.Purchase) {
	tx.st.purchases[PurchaseKey{Buyer: p.Buyer, ListingID: p.Listing.ID}] = p
}

// PurchasesByBuyer returns the buyer's grants ordered by listing id.
func (tx *Tx) PurchasesByBuyer(buyer model.Address) []model.Purchase {
	var out []model.Purchase
	for key, p := range tx.st.purchases {
		if key.Buyer == buyer {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Listing.ID < out[j].Listing.ID })
	return out
}

func cloneListing(l model.Listing) model.Listing {
	l.RecordTypes = append([]model.RecordType(nil), l.RecordTypes...)
	l.AllowOrgTypes = append([]model.OrganizationType(nil), l.AllowOrgTypes...)
	return l
}
