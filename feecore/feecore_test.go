package feecore

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func paidAt(day int) time.Time {
	return time.Date(2025, time.July, day, 10, 0, 0, 0, time.UTC)
}

func paid(t FeeType, amount int, day int) Payment {
	return Payment{FeeType: t, Amount: amount, PaidAmount: amount, Status: StatusPaid, CreatedAt: paidAt(day)}
}

func TestResolve(t *testing.T) {
	s := Structure{Tuition: 50000, Hostel: 12000, Security: 5000, AC: 3000, Miscellaneous: 1500}
	owed, total := Resolve(s)

	if total != 71500 {
		t.Fatalf("expected total 71500, got %d", total)
	}
	expected := map[FeeType]int{
		TuitionFee:       50000,
		HostelFee:        12000,
		SecurityFee:      5000,
		ACCharge:         3000,
		MiscellaneousFee: 1500,
	}
	if !reflect.DeepEqual(owed, expected) {
		t.Fatalf("unexpected owed map: %v", owed)
	}
}

func TestResolveZeroStructure(t *testing.T) {
	owed, total := Resolve(Structure{})
	if total != 0 {
		t.Fatalf("expected zero total, got %d", total)
	}
	for _, ft := range ConcreteTypes() {
		if owed[ft] != 0 {
			t.Fatalf("expected zero owed for %s, got %d", ft, owed[ft])
		}
	}
}

func TestAggregate(t *testing.T) {
	s := Structure{Tuition: 50000, Hostel: 20000}
	tests := []struct {
		name     string
		payments []Payment
		target   FeeType
		expected int
	}{
		{
			name:     "no payments",
			payments: nil,
			target:   TuitionFee,
			expected: 0,
		},
		{
			name: "type specific sum",
			payments: []Payment{
				paid(TuitionFee, 20000, 1),
				paid(TuitionFee, 10000, 2),
				paid(HostelFee, 5000, 3),
			},
			target:   TuitionFee,
			expected: 30000,
		},
		{
			name: "pending records do not count",
			payments: []Payment{
				paid(TuitionFee, 20000, 1),
				{FeeType: TuitionFee, Amount: 10000, Status: StatusPending, CreatedAt: paidAt(2)},
			},
			target:   TuitionFee,
			expected: 20000,
		},
		{
			name: "paid amount falls back to amount",
			payments: []Payment{
				{FeeType: TuitionFee, Amount: 15000, Status: StatusPaid, CreatedAt: paidAt(1)},
			},
			target:   TuitionFee,
			expected: 15000,
		},
		{
			name: "total fee target sums every paid record",
			payments: []Payment{
				paid(TuitionFee, 20000, 1),
				paid(HostelFee, 5000, 2),
			},
			target:   TotalFee,
			expected: 25000,
		},
		{
			name: "lump sum record settles every concrete type",
			payments: []Payment{
				paid(TotalFee, 70000, 1),
			},
			target:   HostelFee,
			expected: 20000,
		},
		{
			name: "all-paid sum reaching total settles every concrete type",
			payments: []Payment{
				paid(TuitionFee, 50000, 1),
				paid(HostelFee, 20000, 2),
			},
			target:   HostelFee,
			expected: 20000,
		},
		{
			name: "fine target sums fines only, no short circuit",
			payments: []Payment{
				paid(TotalFee, 70000, 1),
				paid(Fine, 500, 2),
			},
			target:   Fine,
			expected: 500,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate(tc.payments, tc.target, s)
			if got != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

// Scenario 1: tuition only, no payments.
func TestReconcileNoPayments(t *testing.T) {
	s := Structure{Tuition: 50000}
	res := Reconcile(s, nil)

	if res.PerType[TuitionFee].Remaining != 50000 {
		t.Fatalf("expected tuition remaining 50000, got %d", res.PerType[TuitionFee].Remaining)
	}
	if res.Aggregate.Remaining != 50000 {
		t.Fatalf("expected aggregate remaining 50000, got %d", res.Aggregate.Remaining)
	}
	if len(res.Timeline) != 0 {
		t.Fatalf("expected empty timeline, got %d entries", len(res.Timeline))
	}
}

// Scenarios 2 and 3: partial then settling payments against tuition.
func TestReconcilePartialThenSettled(t *testing.T) {
	s := Structure{Tuition: 50000}

	res := Reconcile(s, []Payment{paid(TuitionFee, 20000, 1)})
	if res.PerType[TuitionFee].Remaining != 30000 {
		t.Fatalf("after first payment expected remaining 30000, got %d", res.PerType[TuitionFee].Remaining)
	}

	res = Reconcile(s, []Payment{
		paid(TuitionFee, 20000, 1),
		paid(TuitionFee, 30000, 2),
	})
	if res.PerType[TuitionFee].Remaining != 0 {
		t.Fatalf("after second payment expected remaining 0, got %d", res.PerType[TuitionFee].Remaining)
	}
	if len(res.Timeline) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(res.Timeline))
	}
	second := res.Timeline[1]
	if second.OwedAtTime != 30000 || second.RemainingAfter != 0 {
		t.Fatalf("expected second entry owed-at-time 30000 remaining-after 0, got %d / %d",
			second.OwedAtTime, second.RemainingAfter)
	}
}

// Scenario 4: a lump-sum "Total fee" payment settles types that never
// received a type-specific record.
func TestReconcileLumpSum(t *testing.T) {
	s := Structure{Tuition: 30000, Hostel: 20000}
	res := Reconcile(s, []Payment{paid(TotalFee, 50000, 1)})

	if res.PerType[TuitionFee].Remaining != 0 {
		t.Fatalf("expected tuition remaining 0, got %d", res.PerType[TuitionFee].Remaining)
	}
	if res.PerType[HostelFee].Remaining != 0 {
		t.Fatalf("expected hostel remaining 0, got %d", res.PerType[HostelFee].Remaining)
	}
	if res.Aggregate.Remaining != 0 {
		t.Fatalf("expected aggregate remaining 0, got %d", res.Aggregate.Remaining)
	}
	// The lump sum is counted once in the aggregate, not re-counted per type.
	if res.Aggregate.Paid != 50000 {
		t.Fatalf("expected aggregate paid 50000, got %d", res.Aggregate.Paid)
	}
}

// Short-circuit law: any paid "Total fee" record zeroes every concrete type's
// remaining regardless of its own paid sum.
func TestShortCircuitLaw(t *testing.T) {
	s := Structure{Tuition: 40000, Hostel: 15000, Security: 5000, AC: 2000, Miscellaneous: 1000}
	res := Reconcile(s, []Payment{
		paid(TuitionFee, 10000, 1),
		paid(TotalFee, 63000, 2),
	})

	for _, ft := range ConcreteTypes() {
		if res.PerType[ft].Remaining != 0 {
			t.Fatalf("expected %s remaining 0 under short circuit, got %d", ft, res.PerType[ft].Remaining)
		}
	}
}

func TestReconcileIdempotent(t *testing.T) {
	s := Structure{Tuition: 30000, Hostel: 20000}
	payments := []Payment{
		paid(TuitionFee, 10000, 1),
		paid(HostelFee, 5000, 2),
		{FeeType: TuitionFee, Amount: 5000, Status: StatusPending, CreatedAt: paidAt(3)},
	}

	first := Reconcile(s, payments)
	second := Reconcile(s, payments)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical inputs")
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	payments := []Payment{
		paid(TuitionFee, 5000, 3),
		paid(TuitionFee, 2000, 1),
	}
	before := make([]Payment, len(payments))
	copy(before, payments)

	Reconcile(Structure{Tuition: 10000}, payments)
	if !reflect.DeepEqual(before, payments) {
		t.Fatalf("input slice was reordered or mutated")
	}
}

// Timeline monotonicity: remaining-after of entry i equals owed-at-time of
// entry i+1 for consecutive paid records of the same type.
func TestTimelineMonotonicity(t *testing.T) {
	s := Structure{Tuition: 50000}
	res := Reconcile(s, []Payment{
		paid(TuitionFee, 10000, 1),
		paid(TuitionFee, 15000, 2),
		paid(TuitionFee, 5000, 3),
	})

	if len(res.Timeline) != 3 {
		t.Fatalf("expected 3 timeline entries, got %d", len(res.Timeline))
	}
	for i := 0; i < len(res.Timeline)-1; i++ {
		if res.Timeline[i].RemainingAfter != res.Timeline[i+1].OwedAtTime {
			t.Fatalf("entry %d remaining-after %d != entry %d owed-at-time %d",
				i, res.Timeline[i].RemainingAfter, i+1, res.Timeline[i+1].OwedAtTime)
		}
	}
}

func TestTimelineOrdersByCreationTime(t *testing.T) {
	s := Structure{Tuition: 50000}
	// Supplied out of order; the timeline must be chronological.
	res := Reconcile(s, []Payment{
		paid(TuitionFee, 30000, 5),
		paid(TuitionFee, 20000, 1),
	})

	if res.Timeline[0].Paid != 20000 {
		t.Fatalf("expected earliest payment first, got %d", res.Timeline[0].Paid)
	}
	if res.Timeline[0].OwedAtTime != 50000 || res.Timeline[0].RemainingAfter != 30000 {
		t.Fatalf("unexpected first entry: %+v", res.Timeline[0])
	}
	if res.Timeline[1].OwedAtTime != 30000 || res.Timeline[1].RemainingAfter != 0 {
		t.Fatalf("unexpected second entry: %+v", res.Timeline[1])
	}
}

// "Total fee" and "Fine" records bypass the running calculation and are
// self-contained in the timeline.
func TestTimelineSelfContainedEntries(t *testing.T) {
	s := Structure{Tuition: 30000}
	res := Reconcile(s, []Payment{
		paid(Fine, 500, 1),
		paid(TotalFee, 30000, 2),
	})

	fine := res.Timeline[0]
	if fine.OwedAtTime != 500 || fine.Paid != 500 || fine.RemainingAfter != 0 {
		t.Fatalf("unexpected fine entry: %+v", fine)
	}
	lump := res.Timeline[1]
	if lump.OwedAtTime != 30000 || lump.Paid != 30000 || lump.RemainingAfter != 0 {
		t.Fatalf("unexpected lump-sum entry: %+v", lump)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	// Overpayment can only enter the snapshot through legacy data; remaining
	// still floors at zero.
	s := Structure{Tuition: 10000}
	res := Reconcile(s, []Payment{paid(TuitionFee, 15000, 1)})

	if res.PerType[TuitionFee].Remaining != 0 {
		t.Fatalf("expected remaining clamped to 0, got %d", res.PerType[TuitionFee].Remaining)
	}
	if res.Aggregate.Remaining != 0 {
		t.Fatalf("expected aggregate remaining clamped to 0, got %d", res.Aggregate.Remaining)
	}
}

func TestValidateNewPayment(t *testing.T) {
	s := Structure{Tuition: 50000}
	res := Reconcile(s, []Payment{paid(TuitionFee, 20000, 1)})

	tests := []struct {
		name    string
		feeType FeeType
		amount  int
		wantErr error
	}{
		{"within remaining", TuitionFee, 30000, nil},
		{"partial within remaining", TuitionFee, 1000, nil},
		// Scenario 5: 40000 against 30000 remaining.
		{"exceeds remaining", TuitionFee, 40000, ErrExceedsRemaining},
		{"zero amount", TuitionFee, 0, ErrInvalidAmount},
		{"negative amount", TuitionFee, -100, ErrInvalidAmount},
		{"settled component", HostelFee, 1, ErrFeeSettled},
		// Scenario 6: fines are exempt from the ceiling.
		{"fine always accepted", Fine, 99999, nil},
		{"total fee within aggregate", TotalFee, 30000, nil},
		{"total fee exceeds aggregate", TotalFee, 30001, ErrExceedsRemaining},
		{"unknown tag", FeeType("Lab Fee"), 100, ErrUnknownFeeType},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateNewPayment(res, tc.feeType, tc.amount)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateNewPaymentRejectsSettledStructure(t *testing.T) {
	s := Structure{Tuition: 30000, Hostel: 20000}
	res := Reconcile(s, []Payment{paid(TotalFee, 50000, 1)})

	for _, ft := range ConcreteTypes() {
		if err := ValidateNewPayment(res, ft, 100); !errors.Is(err, ErrFeeSettled) {
			t.Fatalf("expected ErrFeeSettled for %s, got %v", ft, err)
		}
	}
	// Fines stay open after full settlement.
	if err := ValidateNewPayment(res, Fine, 100); err != nil {
		t.Fatalf("expected fine to remain accepted, got %v", err)
	}
}

func TestAggregateRemainingMatchesTotalMinusPaid(t *testing.T) {
	s := Structure{Tuition: 30000, Hostel: 20000}
	totals := []struct {
		name     string
		payments []Payment
		expected int
	}{
		{"nothing paid", nil, 50000},
		{"partial", []Payment{paid(TuitionFee, 10000, 1)}, 40000},
		{"split across types", []Payment{paid(TuitionFee, 10000, 1), paid(HostelFee, 20000, 2)}, 20000},
		{"fully paid", []Payment{paid(TuitionFee, 30000, 1), paid(HostelFee, 20000, 2)}, 0},
	}

	for _, tc := range totals {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			res := Reconcile(s, tc.payments)
			if res.Aggregate.Remaining != tc.expected {
				t.Fatalf("expected aggregate remaining %d, got %d", tc.expected, res.Aggregate.Remaining)
			}
		})
	}
}
