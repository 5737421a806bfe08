package feecore

// Resolve maps a fee structure to the owed amount per concrete fee type and
// the aggregate total. Missing components resolve to zero rather than failing.
func Resolve(s Structure) (map[FeeType]int, int) {
	owed := map[FeeType]int{
		TuitionFee:       s.Tuition,
		HostelFee:        s.Hostel,
		SecurityFee:      s.Security,
		ACCharge:         s.AC,
		MiscellaneousFee: s.Miscellaneous,
	}
	return owed, s.Total()
}
