package sale

// VestingSchedule describes the time-gated release of purchased tokens.
// Cliff and Duration are in seconds from the vesting start; Granularity
// quantizes the release into discrete steps (0 means continuous linear
// release); InitialReleaseBps is the basis-point share of the allocation
// released as soon as the cliff has passed.
type VestingSchedule struct {
	Cliff             int64
	Duration          int64
	Granularity       int64
	InitialReleaseBps uint32
}

const maxBps = 10_000

// Valid reports whether the schedule is internally consistent.
func (s VestingSchedule) Valid() bool {
	if s.Cliff < 0 || s.Duration <= 0 || s.Granularity < 0 {
		return false
	}
	if s.Duration <= s.Cliff {
		return false
	}
	if s.InitialReleaseBps > maxBps {
		return false
	}
	if s.Granularity > s.Duration-s.Cliff {
		return false
	}
	return true
}
