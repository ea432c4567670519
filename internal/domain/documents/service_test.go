package documents

import (
	"bytes"
	"context"
	"testing"
	"time"

	"pointage/internal/domain/employees"
)

type fakeUploader struct {
	objectName  string
	contentType string
	data        []byte
}

func (f *fakeUploader) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	f.objectName = objectName
	f.contentType = contentType
	f.data = data
	return "hr-documents/" + objectName, nil
}

func testEmployee() *employees.Employee {
	return &employees.Employee{
		ID:        "emp-1",
		FirstName: "Ana",
		LastName:  "Martin",
		Email:     "ana@example.com",
		Role:      "employee",
		HireDate:  time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAttestationUploadsPDF(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewService(uploader)

	ref, err := svc.Attestation(context.Background(), testEmployee())
	if err != nil {
		t.Fatalf("attestation: %v", err)
	}
	if ref == "" {
		t.Fatal("expected object reference")
	}
	if uploader.contentType != "application/pdf" {
		t.Fatalf("expected pdf content type, got %s", uploader.contentType)
	}
	if !bytes.HasPrefix(uploader.data, []byte("%PDF")) {
		t.Fatal("uploaded payload is not a PDF")
	}
}

func TestPayslipUploadsPDF(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewService(uploader)

	summary := PayslipSummary{
		PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalDays:   21,
		TotalHours:  168,
		LateDays:    2,
	}
	if _, err := svc.Payslip(context.Background(), testEmployee(), summary); err != nil {
		t.Fatalf("payslip: %v", err)
	}
	if uploader.objectName != "payslips/emp-1-2025-03.pdf" {
		t.Fatalf("unexpected object name %s", uploader.objectName)
	}
	if !bytes.HasPrefix(uploader.data, []byte("%PDF")) {
		t.Fatal("uploaded payload is not a PDF")
	}
}
