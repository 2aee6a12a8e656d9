package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData carries everything printed on a study certificate.
type CertificateData struct {
	Serial      string
	StudentName string
	StudentDNI  string
	CareerName  string
	CampusName  string
	IssuedAt    time.Time
}

// CertificateRenderer produces study certificates as PDF documents.
type CertificateRenderer struct {
	institution string
}

// NewCertificateRenderer constructs a renderer with the institution header.
func NewCertificateRenderer(institution string) *CertificateRenderer {
	if institution == "" {
		institution = "Instituto de Educación Superior"
	}
	return &CertificateRenderer{institution: institution}
}

// Render creates the certificate PDF for the provided data.
func (r *CertificateRenderer) Render(data CertificateData) ([]byte, error) {
	if data.StudentName == "" || data.CareerName == "" {
		return nil, fmt.Errorf("certificate requires student and career names")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, strings.ToUpper(r.institution), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 14, "CERTIFICADO DE ESTUDIOS", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 8, "Otorgado a:", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, strings.ToUpper(data.StudentName), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("DNI %s", data.StudentDNI), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	body := fmt.Sprintf("por haber culminado satisfactoriamente los estudios de la carrera de %s", data.CareerName)
	if data.CampusName != "" {
		body += fmt.Sprintf(" en la sede %s", data.CampusName)
	}
	pdf.SetFont("Arial", "", 13)
	pdf.MultiCell(0, 8, body+".", "", "C", false)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	issued := data.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("Expedido el %s", issued.Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Serie %s", data.Serial), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
