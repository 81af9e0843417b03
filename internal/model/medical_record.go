package model

import (
	"time"

	"github.com/google/uuid"
)

type RecordType uint8

const (
	RecordTypeGeneral RecordType = iota
	RecordTypeLab
	RecordTypeImaging
	RecordTypePrescription
	RecordTypeGenomic
)

// MedicalRecord is one record entity per issuance. The file content behind
// URI is opaque to the marketplace; only the flags gate metadata reads.
// Valid is toggled by the issuing organization, AccessStopped by the
// patient. Records are never deleted, only flagged.
type MedicalRecord struct {
	ID            uuid.UUID  `json:"record"`
	Patient       Address    `json:"patient"`
	IssuedBy      Address    `json:"issued_by"`
	Type          RecordType `json:"record_type"`
	URI           string     `json:"uri"`
	Valid         bool       `json:"-"`
	AccessStopped bool       `json:"-"`
	AddedAt       time.Time  `json:"added_at"`
}

// RecordMetadata is the readable tuple returned while both flags are open.
type RecordMetadata struct {
	Patient  Address    `json:"patient"`
	IssuedBy Address    `json:"issued_by"`
	Record   uuid.UUID  `json:"record"`
	Type     RecordType `json:"record_type"`
	URI      string     `json:"uri"`
}
