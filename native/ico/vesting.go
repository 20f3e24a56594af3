package ico

import "icoledger/core/sale"

const bpsDenominator = 10_000

// VestedAmount computes the cumulative amount of an allocation releasable at
// now, given the vesting start and schedule. The result is monotonically
// non-decreasing in now, never exceeds total, and rounds down so an investor
// is never entitled to more than the exact pro-rata share. Before the cliff
// nothing is releasable; after the full duration everything is.
func VestedAmount(total uint64, start, now int64, sched sale.VestingSchedule) (uint64, error) {
	if !sched.Valid() {
		return 0, sale.ErrInvalidVestingSchedule
	}
	if total == 0 {
		return 0, nil
	}
	elapsed := now - start
	if now < start || elapsed < sched.Cliff {
		return 0, nil
	}
	if elapsed >= sched.Duration {
		return total, nil
	}
	vestingElapsed := elapsed - sched.Cliff
	if sched.Granularity > 0 {
		vestingElapsed -= vestingElapsed % sched.Granularity
	}
	initial, err := mulDivFloor(total, uint64(sched.InitialReleaseBps), bpsDenominator)
	if err != nil {
		return 0, err
	}
	linear, err := mulDivFloor(total-initial, uint64(vestingElapsed), uint64(sched.Duration-sched.Cliff))
	if err != nil {
		return 0, err
	}
	return addU64(initial, linear)
}

// entrySchedule resolves the vesting schedule in force for a purchase entry:
// the entry's custom rule when present, the campaign default for the round
// otherwise.
func entrySchedule(c *sale.Campaign, entry sale.PurchaseEntry) (sale.VestingSchedule, error) {
	if entry.Schedule != nil {
		return *entry.Schedule, nil
	}
	round, ok := c.Round(entry.Round)
	if !ok {
		return sale.VestingSchedule{}, sale.ErrUnknownRound
	}
	return round.Schedule, nil
}

// ledgerVested sums the vested amounts of every purchase entry at now. Under
// the campaign policy the clock runs from the launch timestamp; a campaign
// that has not launched has vested nothing. Under the purchase policy it
// runs from the investor's first purchase.
func ledgerVested(c *sale.Campaign, l *sale.InvestorLedger, now int64) (uint64, error) {
	if c == nil || l == nil {
		return 0, sale.ErrNotFound
	}
	var start int64
	switch c.StartPolicy {
	case sale.VestingStartCampaign:
		if !c.Launched() {
			return 0, nil
		}
		start = c.LaunchTime
	case sale.VestingStartPurchase:
		start = l.VestingStart
	default:
		return 0, sale.ErrInvalidVestingSchedule
	}
	var total uint64
	for _, entry := range l.Entries {
		sched, err := entrySchedule(c, entry)
		if err != nil {
			return 0, err
		}
		vested, err := VestedAmount(entry.Tokens, start, now, sched)
		if err != nil {
			return 0, err
		}
		total, err = addU64(total, vested)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
