package memory

import (
	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/model"
)

func (tx *Tx) Patient(addr model.Address) (model.Patient, bool) {
	p, ok := tx.st.patients[addr]
	if !ok {
		return model.Patient{}, false
	}
	cp := p
	cp.Records = append([]uuid.UUID(nil), p.Records...)
	return cp, true
}

func (tx *Tx) PutPatient(p model.Patient) {
	p.Records = append([]uuid.UUID(nil), p.Records...)
	tx.st.patients[p.Address] = p
}

func (tx *Tx) DeletePatient(addr model.Address) {
	delete(tx.st.patients, addr)
}

func (tx *Tx) IsPatient(addr model.Address) bool {
	_, ok := tx.st.patients[addr]
	return ok
}

func (tx *Tx) Record(id uuid.UUID) (model.MedicalRecord, bool) {
	rec, ok := tx.st.records[id]
	return rec, ok
}

func (tx *Tx) PutRecord(rec model.MedicalRecord) {
	tx.st.records[rec.ID] = rec
}

// AppendPatientRecord stores the record and appends it to the patient's
// index, preserving insertion order.
func (tx *Tx) AppendPatientRecord(addr model.Address, rec model.MedicalRecord) {
	tx.st.records[rec.ID] = rec
	p := tx.st.patients[addr]
	p.Records = append(p.Records, rec.ID)
	tx.st.patients[addr] = p
}

// PatientRecords returns the patient's records in insertion order,
// filtered to the given types; an empty filter returns all of them.
func (tx *Tx) PatientRecords(addr model.Address, types []model.RecordType) []model.MedicalRecord {
	p, ok := tx.st.patients[addr]
	if !ok {
		return nil
	}
	var out []model.MedicalRecord
	for _, id := range p.Records {
		rec, ok := tx.st.records[id]
		if !ok {
			continue
		}
		if len(types) == 0 || containsType(types, rec.Type) {
			out = append(out, rec)
		}
	}
	return out
}

func containsType(types []model.RecordType, t model.RecordType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
