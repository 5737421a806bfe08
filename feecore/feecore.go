// Package feecore implements the fee-ledger reconciliation used by the fee
// entry form, receipts and the dashboard. Everything here is pure: the
// functions operate on an in-memory snapshot of a student's fee structure and
// payment records, perform no I/O and never mutate their inputs. Callers are
// expected to hand in well-formed records (valid fee types, non-negative
// amounts); sanitizing happens at the controller boundary.
package feecore

import "time"

// FeeType is an enumerated category of charge. Five concrete components plus
// two special tags: "Total fee" (lump-sum settlement of the whole structure)
// and "Fine" (uncapped penalty charge).
type FeeType string

const (
	TuitionFee       FeeType = "Tuition Fee"
	HostelFee        FeeType = "Hostel Fee"
	SecurityFee      FeeType = "Security Fee"
	ACCharge         FeeType = "AC Charge"
	MiscellaneousFee FeeType = "Miscellaneous Fee"
	TotalFee         FeeType = "Total fee"
	Fine             FeeType = "Fine"
)

// ConcreteTypes returns the five concrete fee components in display order.
func ConcreteTypes() []FeeType {
	return []FeeType{TuitionFee, HostelFee, SecurityFee, ACCharge, MiscellaneousFee}
}

// ValidFeeType reports whether t is one of the known fee-type tags.
func ValidFeeType(t FeeType) bool {
	switch t {
	case TuitionFee, HostelFee, SecurityFee, ACCharge, MiscellaneousFee, TotalFee, Fine:
		return true
	}
	return false
}

// Payment status values.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusOverdue Status = "overdue"
)

// Structure is a student's fixed fee structure, integer currency units.
// Zero values stand for absent components.
type Structure struct {
	Tuition       int
	Hostel        int
	Security      int
	AC            int
	Miscellaneous int
}

// Total returns the aggregate amount owed across all five components.
func (s Structure) Total() int {
	return s.Tuition + s.Hostel + s.Security + s.AC + s.Miscellaneous
}

// Payment is one discrete fee transaction from the student's ledger.
type Payment struct {
	FeeType    FeeType
	Amount     int
	PaidAmount int
	Status     Status
	CreatedAt  time.Time
}

// credited is the amount a paid record contributes to the ledger: PaidAmount,
// falling back to Amount for legacy rows where PaidAmount was never written.
func (p Payment) credited() int {
	if p.PaidAmount > 0 {
		return p.PaidAmount
	}
	return p.Amount
}

// Balance is the derived position for one scope (a fee type or the whole
// structure). Recomputed on every read, never stored.
type Balance struct {
	Owed      int `json:"owed"`
	Paid      int `json:"paid"`
	Remaining int `json:"remaining"`
}

// FullyPaid reports whether nothing is left to collect in this scope.
func (b Balance) FullyPaid() bool {
	return b.Remaining == 0
}

// TimelineEntry is the running balance around one payment record, as it stood
// at the moment of that payment. Receipts printed for old records use this
// instead of the current balance.
type TimelineEntry struct {
	FeeType        FeeType `json:"fee_type"`
	Payment        Payment `json:"-"`
	OwedAtTime     int     `json:"owed_at_time"`
	Paid           int     `json:"paid"`
	RemainingAfter int     `json:"remaining_after"`
}

// Result is the full reconciliation output for one student snapshot.
type Result struct {
	PerType   map[FeeType]Balance `json:"per_type"`
	Aggregate Balance             `json:"aggregate"`
	Timeline  []TimelineEntry     `json:"timeline"`
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
