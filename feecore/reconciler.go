package feecore

import (
	"errors"
	"fmt"
	"sort"
)

// Validation errors surfaced by ValidateNewPayment. Controllers map these to
// 4xx responses before any write is attempted.
var (
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrUnknownFeeType   = errors.New("unknown fee type")
	ErrFeeSettled       = errors.New("fee type is fully paid")
	ErrExceedsRemaining = errors.New("payment amount exceeds remaining balance")
)

// Reconcile combines a student's fee structure with the payment ledger into
// per-type balances, the aggregate position and the per-record running
// balance timeline. Pure and idempotent: the same snapshot always yields the
// same result.
func Reconcile(s Structure, payments []Payment) Result {
	owed, totalOwed := Resolve(s)

	perType := make(map[FeeType]Balance, len(owed))
	for _, t := range ConcreteTypes() {
		paid := Aggregate(payments, t, s)
		perType[t] = Balance{
			Owed:      owed[t],
			Paid:      paid,
			Remaining: clampZero(owed[t] - paid),
		}
	}

	// The aggregate counts each real payment once. Lump-settled concrete
	// types report synthetic paid amounts above; those must not be summed
	// again here.
	aggPaid := sumPaid(payments)
	aggregate := Balance{
		Owed:      totalOwed,
		Paid:      aggPaid,
		Remaining: clampZero(totalOwed - aggPaid),
	}

	return Result{
		PerType:   perType,
		Aggregate: aggregate,
		Timeline:  buildTimeline(owed, payments),
	}
}

// buildTimeline reconstructs, for every record in chronological order, the
// balance as it stood at the moment of that payment. For the Nth record of a
// concrete type, owed-at-time is the type's owed amount minus the credited
// sum of the earlier paid records of that type, clamped at zero. "Total fee"
// and "Fine" records are self-contained: they show their own amount on both
// sides of the entry.
func buildTimeline(owed map[FeeType]int, payments []Payment) []TimelineEntry {
	ordered := make([]Payment, len(payments))
	copy(ordered, payments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	entries := make([]TimelineEntry, 0, len(ordered))
	priorPaid := map[FeeType]int{}

	for _, p := range ordered {
		entry := TimelineEntry{FeeType: p.FeeType, Payment: p}

		switch p.FeeType {
		case TotalFee, Fine:
			entry.OwedAtTime = p.Amount
			if p.Status == StatusPaid {
				entry.Paid = p.credited()
			} else {
				entry.Paid = p.PaidAmount
			}
			entry.RemainingAfter = clampZero(entry.OwedAtTime - entry.Paid)
		default:
			entry.OwedAtTime = clampZero(owed[p.FeeType] - priorPaid[p.FeeType])
			if p.Status == StatusPaid {
				entry.Paid = p.credited()
				priorPaid[p.FeeType] += entry.Paid
			} else {
				entry.Paid = p.PaidAmount
			}
			entry.RemainingAfter = clampZero(entry.OwedAtTime - entry.Paid)
		}

		entries = append(entries, entry)
	}
	return entries
}

// ValidateNewPayment gates the fee entry form: a new payment of amount for
// feeType is accepted only while positive and within the remaining balance of
// its scope. Fines carry no fixed owed amount and are exempt from the
// ceiling. "Total fee" payments are checked against the aggregate remaining.
func ValidateNewPayment(r Result, feeType FeeType, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if feeType == Fine {
		return nil
	}

	var bal Balance
	switch feeType {
	case TotalFee:
		bal = r.Aggregate
	default:
		var ok bool
		bal, ok = r.PerType[feeType]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFeeType, feeType)
		}
	}

	if bal.FullyPaid() {
		return fmt.Errorf("%w: %s", ErrFeeSettled, feeType)
	}
	if amount > bal.Remaining {
		return fmt.Errorf("%w: %d > %d remaining for %s", ErrExceedsRemaining, amount, bal.Remaining, feeType)
	}
	return nil
}
