package repository

import (
	"database/sql"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/utils"
)

// CreateEnrollment inserts a new enrollment
func (s *SQLStore) CreateEnrollment(e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, student_name, student_email, status,
			total_amount, installments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.q.Exec(query, e.ID, e.StudentName, e.StudentEmail, e.Status,
		e.TotalAmount, e.Installments, e.CreatedAt, e.UpdatedAt)
	return err
}

// GetEnrollmentByID retrieves an enrollment by its ID
func (s *SQLStore) GetEnrollmentByID(id string) (*models.Enrollment, error) {
	query := `
		SELECT id, student_name, student_email, status, total_amount, installments,
			created_at, updated_at
		FROM enrollments WHERE id = $1
	`
	var e models.Enrollment
	err := s.q.QueryRow(query, id).Scan(&e.ID, &e.StudentName, &e.StudentEmail,
		&e.Status, &e.TotalAmount, &e.Installments, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Enrollment")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEnrollments retrieves all enrollments, newest first
func (s *SQLStore) ListEnrollments() ([]models.Enrollment, error) {
	query := `
		SELECT id, student_name, student_email, status, total_amount, installments,
			created_at, updated_at
		FROM enrollments
		ORDER BY created_at DESC
	`
	rows, err := s.q.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		err := rows.Scan(&e.ID, &e.StudentName, &e.StudentEmail, &e.Status,
			&e.TotalAmount, &e.Installments, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// CreateContract inserts the tuition contract behind an enrollment
func (s *SQLStore) CreateContract(ct *models.Contract) error {
	query := `
		INSERT INTO contracts (id, enrollment_id, contract_number, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q.Exec(query, ct.ID, ct.EnrollmentID, ct.ContractNumber,
		ct.TotalAmount, ct.Status, ct.CreatedAt)
	return err
}

// GetContractByEnrollment retrieves an enrollment's contract
func (s *SQLStore) GetContractByEnrollment(enrollmentID string) (*models.Contract, error) {
	query := `
		SELECT id, enrollment_id, contract_number, total_amount, status, created_at
		FROM contracts WHERE enrollment_id = $1
	`
	var ct models.Contract
	err := s.q.QueryRow(query, enrollmentID).Scan(&ct.ID, &ct.EnrollmentID,
		&ct.ContractNumber, &ct.TotalAmount, &ct.Status, &ct.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Contract")
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// CreateDocument inserts document metadata for an enrollment
func (s *SQLStore) CreateDocument(d *models.Document) error {
	query := `
		INSERT INTO documents (id, enrollment_id, name, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q.Exec(query, d.ID, d.EnrollmentID, d.Name, d.Type, d.Status, d.CreatedAt)
	return err
}

// ListDocumentsByEnrollment retrieves an enrollment's tracked documents
func (s *SQLStore) ListDocumentsByEnrollment(enrollmentID string) ([]models.Document, error) {
	query := `
		SELECT id, enrollment_id, name, type, status, created_at
		FROM documents
		WHERE enrollment_id = $1
		ORDER BY created_at
	`
	rows, err := s.q.Query(query, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		err := rows.Scan(&d.ID, &d.EnrollmentID, &d.Name, &d.Type, &d.Status, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}
