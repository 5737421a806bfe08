package feecore

// Aggregate returns the paid-to-date amount for the target fee type. The
// target is one of the five concrete types, "Total fee" for the whole
// structure, or "Fine". Only records with status paid count; PaidAmount falls
// back to Amount when absent.
//
// Lump-sum rule: if any paid "Total fee" record exists, or the sum of all
// paid records meets the aggregate total owed, every concrete type reports
// its full owed amount as paid even when its own type-specific sum is lower.
// The eligibility check depends on this, so the rule must hold here and not
// only in the reconciler.
func Aggregate(payments []Payment, target FeeType, s Structure) int {
	switch target {
	case TotalFee:
		return sumPaid(payments)
	case Fine:
		return sumPaidOfType(payments, Fine)
	}

	if LumpSettled(payments, s) {
		owed, _ := Resolve(s)
		return owed[target]
	}
	return sumPaidOfType(payments, target)
}

// LumpSettled reports whether the whole fee structure is considered settled:
// either a paid "Total fee" record exists, or the paid sum across all record
// types has reached the aggregate total owed.
func LumpSettled(payments []Payment, s Structure) bool {
	total := s.Total()
	if total == 0 {
		return true
	}
	for _, p := range payments {
		if p.Status == StatusPaid && p.FeeType == TotalFee {
			return true
		}
	}
	return sumPaid(payments) >= total
}

// PaidByType returns the raw credited sum of paid records per fee type, with
// no lump-sum short-circuit applied. Structure edits use this to keep each
// component at or above what has already been collected against it.
func PaidByType(payments []Payment) map[FeeType]int {
	sums := map[FeeType]int{}
	for _, p := range payments {
		if p.Status == StatusPaid {
			sums[p.FeeType] += p.credited()
		}
	}
	return sums
}

func sumPaid(payments []Payment) int {
	sum := 0
	for _, p := range payments {
		if p.Status == StatusPaid {
			sum += p.credited()
		}
	}
	return sum
}

func sumPaidOfType(payments []Payment, t FeeType) int {
	sum := 0
	for _, p := range payments {
		if p.Status == StatusPaid && p.FeeType == t {
			sum += p.credited()
		}
	}
	return sum
}
