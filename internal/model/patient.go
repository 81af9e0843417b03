package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Address  Address     `json:"patient_address"`
	Age      uint        `json:"age"`
	Gender   string      `json:"gender"`
	Country  string      `json:"country"`
	IssuedBy Address     `json:"issued_by"`
	Records  []uuid.UUID `json:"records"`
	AddedAt  time.Time   `json:"added_at"`
}

type AddPatientRequest struct {
	Address string `json:"address" binding:"required,address"`
	Age     *uint  `json:"age" binding:"required"`
	Gender  string `json:"gender" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type AddMedicalRecordRequest struct {
	IssuedBy string `json:"issued_by" binding:"required,address"`
	Type     *uint8 `json:"record_type" binding:"required"`
	URI      string `json:"uri" binding:"required"`
}
