package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"pointage/internal/domain/employees"
	"pointage/internal/platform/storage"
)

// Service renders HR documents and stores them in the object store. The
// returned reference is bucket-qualified and handed back to the caller.
type Service struct {
	Uploader storage.Uploader
}

func NewService(uploader storage.Uploader) *Service {
	return &Service{Uploader: uploader}
}

// Attestation produces an employment attestation for the employee.
func (s *Service) Attestation(ctx context.Context, emp *employees.Employee) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attestation of Employment")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"This is to certify that %s has been employed with the company since %s in the role of %s.",
		emp.DisplayName(), emp.HireDate.Format("2006-01-02"), emp.Role), "", "L", false)
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Issued on %s", time.Now().Format("2006-01-02")))

	objectName := fmt.Sprintf("attestations/%s-%d.pdf", emp.ID, time.Now().Unix())
	return s.upload(ctx, pdf, objectName)
}

// PayslipSummary is the payload rendered onto a payslip document.
type PayslipSummary struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalDays   int
	TotalHours  float64
	LateDays    int
}

// Payslip renders a per-period payslip with the presence summary stamped in.
func (s *Service) Payslip(ctx context.Context, emp *employees.Employee, summary PayslipSummary) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", emp.DisplayName()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		summary.PeriodStart.Format("2006-01-02"), summary.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Days present: %d", summary.TotalDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Hours worked: %.2f", summary.TotalHours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Late arrivals: %d", summary.LateDays))

	objectName := fmt.Sprintf("payslips/%s-%s.pdf", emp.ID, summary.PeriodStart.Format("2006-01"))
	return s.upload(ctx, pdf, objectName)
}

func (s *Service) upload(ctx context.Context, pdf *gofpdf.Fpdf, objectName string) (string, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", err
	}
	return s.Uploader.Upload(ctx, objectName, "application/pdf", buf.Bytes())
}
