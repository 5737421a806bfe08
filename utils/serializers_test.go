package utils

import (
	"testing"
	"time"

	"feeadmin_go/feecore"
	"feeadmin_go/models"
)

func TestToFeecoreStructure(t *testing.T) {
	student := models.Student{
		TuitionFee:       85000,
		HostelFee:        45000,
		SecurityFee:      10000,
		ACCharge:         8000,
		MiscellaneousFee: 5000,
	}

	s := ToFeecoreStructure(student)
	if s.Tuition != 85000 || s.Hostel != 45000 || s.Security != 10000 ||
		s.AC != 8000 || s.Miscellaneous != 5000 {
		t.Errorf("unexpected structure: %+v", s)
	}
	if s.Total() != 153000 {
		t.Errorf("Total() = %d, want 153000", s.Total())
	}
}

func TestToFeecorePayments(t *testing.T) {
	created := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	records := []models.PaymentRecord{
		{
			BaseModel:  models.BaseModel{ID: 7, CreatedAt: created},
			FeeType:    "Tuition Fee",
			Amount:     20000,
			PaidAmount: 15000,
			Status:     "paid",
		},
		{
			BaseModel: models.BaseModel{ID: 8, CreatedAt: created.Add(time.Hour)},
			FeeType:   "Fine",
			Amount:    500,
			Status:    "pending",
		},
	}

	payments := ToFeecorePayments(records)
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	if payments[0].FeeType != feecore.TuitionFee || payments[0].PaidAmount != 15000 {
		t.Errorf("unexpected first payment: %+v", payments[0])
	}
	if payments[1].Status != feecore.StatusPending || !payments[1].CreatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("unexpected second payment: %+v", payments[1])
	}
}

func TestToReceiptDTO(t *testing.T) {
	paidDate := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record := models.PaymentRecord{
		BaseModel:     models.BaseModel{ID: 3},
		FeeType:       "Hostel Fee",
		Amount:        20000,
		PaidAmount:    20000,
		Status:        "paid",
		PaymentMethod: "cash",
		ReceiptNo:     "RCP-AB12CD34",
		PaidDate:      &paidDate,
		Student: models.Student{
			BaseModel: models.BaseModel{ID: 12},
			RollNo:    "CS2025-001",
			FirstName: "Aarav",
			LastName:  "Gupta",
			Department: models.Department{
				BaseModel: models.BaseModel{ID: 1},
				Name:      "Computer Science",
				Code:      "CS",
			},
		},
	}
	entry := feecore.TimelineEntry{
		FeeType:        feecore.HostelFee,
		OwedAtTime:     45000,
		Paid:           20000,
		RemainingAfter: 25000,
	}

	dto := ToReceiptDTO(record, entry)
	if dto.ReceiptNo != "RCP-AB12CD34" {
		t.Errorf("ReceiptNo = %q", dto.ReceiptNo)
	}
	if dto.OwedAtTime != 45000 || dto.RemainingAfter != 25000 {
		t.Errorf("timeline balances not carried: owed=%d remaining=%d", dto.OwedAtTime, dto.RemainingAfter)
	}
	if dto.Student.RollNo != "CS2025-001" || dto.Department.Code != "CS" {
		t.Errorf("student/department not mapped: %+v", dto)
	}
	if dto.PaidDate == nil || !dto.PaidDate.Equal(paidDate) {
		t.Error("PaidDate not carried over")
	}
}
