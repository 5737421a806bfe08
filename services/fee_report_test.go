package services

import (
	"testing"
	"time"

	"feeadmin_go/models"
)

func TestBuildFeeReportWorkbook(t *testing.T) {
	paidDate := time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC)
	records := []models.PaymentRecord{
		{
			BaseModel:     models.BaseModel{ID: 1, CreatedAt: paidDate},
			FeeType:       "Tuition Fee",
			Amount:        20000,
			PaidAmount:    20000,
			Status:        "paid",
			PaymentMethod: "cash",
			ReceiptNo:     "RCP-11111111",
			PaidDate:      &paidDate,
			Student: models.Student{
				RollNo:    "CS2025-001",
				FirstName: "Aarav",
				LastName:  "Gupta",
				Department: models.Department{
					Name: "Computer Science",
				},
			},
		},
	}

	f, err := BuildFeeReportWorkbook(records)
	if err != nil {
		t.Fatalf("BuildFeeReportWorkbook returned error: %v", err)
	}
	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if header != "Receipt No" {
		t.Errorf("A1 = %q, want \"Receipt No\"", header)
	}

	cases := []struct {
		cell string
		want string
	}{
		{"A2", "RCP-11111111"},
		{"B2", "CS2025-001"},
		{"C2", "Aarav Gupta"},
		{"D2", "Computer Science"},
		{"E2", "Tuition Fee"},
		{"F2", "20000"},
		{"H2", "paid"},
		{"J2", ""},
		{"K2", "2026-02-14"},
	}
	for _, tc := range cases {
		got, err := f.GetCellValue(sheet, tc.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) failed: %v", tc.cell, err)
		}
		if got != tc.want {
			t.Errorf("%s = %q, want %q", tc.cell, got, tc.want)
		}
	}
}

func TestBuildFeeReportWorkbookEmpty(t *testing.T) {
	f, err := BuildFeeReportWorkbook(nil)
	if err != nil {
		t.Fatalf("BuildFeeReportWorkbook returned error: %v", err)
	}
	if _, err := f.WriteToBuffer(); err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
}
