package models

import (
	"time"
)

// Enrollment statuses.
const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusCancelled = "cancelled"
)

// Contract statuses.
const (
	ContractStatusDraft     = "draft"
	ContractStatusSigned    = "signed"
	ContractStatusCancelled = "cancelled"
)

// Document statuses.
const (
	DocumentStatusPending  = "pending"
	DocumentStatusReceived = "received"
	DocumentStatusRejected = "rejected"
)

// Enrollment represents one student's enrollment with the institution
type Enrollment struct {
	ID           string    `json:"id" db:"id"`
	StudentName  string    `json:"student_name" db:"student_name"`
	StudentEmail string    `json:"student_email" db:"student_email"`
	Status       string    `json:"status" db:"status"`
	TotalAmount  float64   `json:"total_amount" db:"total_amount"`
	Installments int       `json:"installments" db:"installments"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Contract represents the tuition contract behind an enrollment
type Contract struct {
	ID             string    `json:"id" db:"id"`
	EnrollmentID   string    `json:"enrollment_id" db:"enrollment_id"`
	ContractNumber string    `json:"contract_number" db:"contract_number"`
	TotalAmount    float64   `json:"total_amount" db:"total_amount"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Document tracks one piece of enrollment paperwork (metadata only)
type Document struct {
	ID           string    `json:"id" db:"id"`
	EnrollmentID string    `json:"enrollment_id" db:"enrollment_id"`
	Name         string    `json:"name" db:"name"`
	Type         string    `json:"type" db:"type"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreateEnrollmentRequest is the request body for creating an enrollment
// together with its installment payment schedule.
type CreateEnrollmentRequest struct {
	StudentName   string  `json:"student_name" binding:"required"`
	StudentEmail  string  `json:"student_email" binding:"required,email"`
	TotalAmount   float64 `json:"total_amount" binding:"required,gt=0"`
	Installments  int     `json:"installments" binding:"required,gte=1"`
	FirstDueDate  string  `json:"first_due_date" binding:"required"` // YYYY-MM-DD
	PaymentMethod string  `json:"payment_method"`
}

// AddDocumentRequest is the request body for attaching document metadata.
type AddDocumentRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}
