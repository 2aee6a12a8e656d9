package models

import "time"

// Certificate records an issued study certificate and the rendered PDF
// location under the certificate storage directory.
type Certificate struct {
	ID        string    `db:"id" json:"id"`
	Serial    string    `db:"serial" json:"serial"`
	StudentID string    `db:"student_id" json:"student_id"`
	CareerID  string    `db:"career_id" json:"career_id"`
	FilePath  string    `db:"file_path" json:"-"`
	IssuedAt  time.Time `db:"issued_at" json:"issued_at"`
}

// IssueCertificateRequest asks for a study certificate to be rendered.
type IssueCertificateRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	CareerID  string `json:"career_id" validate:"required"`
	CampusID  string `json:"campus_id"`
}

// IssuedCertificate pairs a certificate record with its signed download
// token.
type IssuedCertificate struct {
	Certificate
	DownloadToken string    `json:"download_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// CertificateDetail joins names used on the rendered document.
type CertificateDetail struct {
	Certificate
	StudentDNI  string `db:"student_dni" json:"student_dni"`
	StudentName string `db:"student_name" json:"student_name"`
	CareerName  string `db:"career_name" json:"career_name"`
}
