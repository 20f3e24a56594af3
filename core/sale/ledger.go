package sale

// PurchaseEntry records one purchase for audit and vesting. Schedule is the
// custom vesting rule in force for the entry; nil means the campaign default
// for the round applies.
type PurchaseEntry struct {
	Phase    string
	Round    string
	Tokens   uint64
	Cost     uint64
	Time     int64
	Schedule *VestingSchedule
}

// InvestorLedger is the per-(campaign, investor) commitment record. Purchased
// and Claimed only ever grow while the campaign accepts purchases; Claimed
// never exceeds the amount vested at any observed timestamp.
type InvestorLedger struct {
	Campaign     [32]byte
	Investor     [20]byte
	Purchased    uint64
	Claimed      uint64
	VestingStart int64
	Entries      []PurchaseEntry
}

// PhaseTokens returns the amount purchased during the named phase.
func (l *InvestorLedger) PhaseTokens(phase string) uint64 {
	if l == nil {
		return 0
	}
	var total uint64
	for i := range l.Entries {
		if l.Entries[i].Phase == phase {
			total += l.Entries[i].Tokens
		}
	}
	return total
}

// Clone returns a deep copy of the ledger.
func (l *InvestorLedger) Clone() *InvestorLedger {
	if l == nil {
		return nil
	}
	clone := *l
	clone.Entries = make([]PurchaseEntry, len(l.Entries))
	for i, entry := range l.Entries {
		copied := entry
		if entry.Schedule != nil {
			sched := *entry.Schedule
			copied.Schedule = &sched
		}
		clone.Entries[i] = copied
	}
	return &clone
}
