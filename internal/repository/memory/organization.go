package memory

import "github.com/medex/marketplace-api/internal/model"

func (tx *Tx) Organization(addr model.Address) (model.Organization, bool) {
	org, ok := tx.st.organizations[addr]
	return org, ok
}

func (tx *Tx) PutOrganization(org model.Organization) {
	tx.st.organizations[org.Address] = org
}

func (tx *Tx) DeleteOrganization(addr model.Address) {
	delete(tx.st.organizations, addr)
}

// IsVerifiedOrganization reports whether addr is currently registered
// through the admission chain. The seed organization counts.
func (tx *Tx) IsVerifiedOrganization(addr model.Address) bool {
	_, ok := tx.st.organizations[addr]
	return ok
}
