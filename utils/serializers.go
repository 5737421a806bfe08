package utils

import (
	"time"

	"feeadmin_go/feecore"
	"feeadmin_go/models"
)

// Compact representations used across APIs
type StudentShort struct {
	ID        uint   `json:"id"`
	RollNo    string `json:"roll_no"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

type DepartmentShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// ReceiptDTO is the printable receipt payload for one payment record. The
// historical balances come from the reconciliation timeline, not the current
// ledger position, so an old receipt shows the balance as it stood then.
type ReceiptDTO struct {
	ReceiptNo      string          `json:"receipt_no"`
	FeeType        string          `json:"fee_type"`
	Amount         int             `json:"amount"`
	PaidAmount     int             `json:"paid_amount"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	ChequeNo       string          `json:"cheque_no,omitempty"`
	BankName       string          `json:"bank_name,omitempty"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	OwedAtTime     int             `json:"owed_at_time"`
	RemainingAfter int             `json:"remaining_after"`
	Student        StudentShort    `json:"student"`
	Department     DepartmentShort `json:"department"`
}

// ToReceiptDTO maps a payment record and its timeline entry to the receipt
// payload. Assumptions: caller has preloaded Student and Student.Department.
func ToReceiptDTO(p models.PaymentRecord, entry feecore.TimelineEntry) ReceiptDTO {
	dto := ReceiptDTO{
		ReceiptNo:      p.ReceiptNo,
		FeeType:        p.FeeType,
		Amount:         p.Amount,
		PaidAmount:     p.PaidAmount,
		Status:         p.Status,
		PaymentMethod:  p.PaymentMethod,
		TransactionID:  p.TransactionID,
		ChequeNo:       p.ChequeNo,
		BankName:       p.BankName,
		PaidDate:       p.PaidDate,
		DueDate:        p.DueDate,
		OwedAtTime:     entry.OwedAtTime,
		RemainingAfter: entry.RemainingAfter,
		Student: StudentShort{
			ID:        p.Student.ID,
			RollNo:    p.Student.RollNo,
			FirstName: p.Student.FirstName,
			LastName:  p.Student.LastName,
		},
	}
	if p.Student.Department.ID != 0 {
		dto.Department = DepartmentShort{
			ID:   p.Student.Department.ID,
			Name: p.Student.Department.Name,
			Code: p.Student.Department.Code,
		}
	}
	return dto
}

// ToFeecorePayment converts a stored payment record into the snapshot shape
// the reconciler consumes.
func ToFeecorePayment(p models.PaymentRecord) feecore.Payment {
	return feecore.Payment{
		FeeType:    feecore.FeeType(p.FeeType),
		Amount:     p.Amount,
		PaidAmount: p.PaidAmount,
		Status:     feecore.Status(p.Status),
		CreatedAt:  p.CreatedAt,
	}
}

// ToFeecorePayments converts a student's ledger in one pass.
func ToFeecorePayments(records []models.PaymentRecord) []feecore.Payment {
	out := make([]feecore.Payment, 0, len(records))
	for _, r := range records {
		out = append(out, ToFeecorePayment(r))
	}
	return out
}

// ToFeecoreStructure extracts the fixed fee structure from a student row.
func ToFeecoreStructure(s models.Student) feecore.Structure {
	return feecore.Structure{
		Tuition:       s.TuitionFee,
		Hostel:        s.HostelFee,
		Security:      s.SecurityFee,
		AC:            s.ACCharge,
		Miscellaneous: s.MiscellaneousFee,
	}
}
