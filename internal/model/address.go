package model

// Address identifies a participant (organization, patient, marketplace or
// service owner). Addresses are opaque: the registries only care about who
// registered them, never what they decode to.
type Address string

func (a Address) String() string { return string(a) }

func (a Address) IsZero() bool { return a == "" }
