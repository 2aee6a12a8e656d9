package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// CertificateRepository handles issued certificate records.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs the repository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create persists a certificate record.
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	const query = `INSERT INTO certificates (id, serial, student_id, career_id, file_path, issued_at)
        VALUES (:id, :serial, :student_id, :career_id, :file_path, :issued_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

// FindByID returns a certificate by its ID.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	const query = `SELECT id, serial, student_id, career_id, file_path, issued_at FROM certificates WHERE id = $1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, id); err != nil {
		return nil, err
	}
	return &cert, nil
}

// ListByStudent returns the certificates issued to one student.
func (r *CertificateRepository) ListByStudent(ctx context.Context, studentID string) ([]models.CertificateDetail, error) {
	const query = `SELECT c.id, c.serial, c.student_id, c.career_id, c.file_path, c.issued_at,
        s.dni AS student_dni, s.first_name || ' ' || s.paternal_name AS student_name, ca.name AS career_name
        FROM certificates c
        JOIN students s ON s.id = c.student_id
        LEFT JOIN careers ca ON ca.id = c.career_id
        WHERE c.student_id = $1 ORDER BY c.issued_at DESC`
	var certs []models.CertificateDetail
	if err := r.db.SelectContext(ctx, &certs, query, studentID); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

// NextSerial returns the next sequential certificate serial, formatted
// as CERT-000123.
func (r *CertificateRepository) NextSerial(ctx context.Context) (string, error) {
	const query = `SELECT COUNT(*) FROM certificates`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return "", fmt.Errorf("count certificates: %w", err)
	}
	return fmt.Sprintf("CERT-%06d", count+1), nil
}
