package sale

import (
	"strings"
)

// PriceTier prices the slice of cumulative tokens sold up to UpTo. Tiers are
// ordered by strictly ascending UpTo; the last tier of a phase may set UpTo
// to zero, meaning it is unbounded. UnitPrice is the cost of one smallest
// token unit scaled by the campaign PriceScale.
type PriceTier struct {
	UpTo      uint64
	UnitPrice uint64
}

// Phase is a time-bounded sale stage. The interval is half-open: a purchase
// at exactly End belongs to the next phase. Sold is the running amount of
// tokens sold during the phase and is the only mutable field.
type Phase struct {
	Name        string
	Start       int64
	End         int64
	Tiers       []PriceTier
	RaiseCap    uint64
	InvestorCap uint64
	Sold        uint64
}

// Contains reports whether the timestamp falls inside the phase interval.
func (p *Phase) Contains(ts int64) bool {
	return ts >= p.Start && ts < p.End
}

// RoundSchedule binds an investment round label to its default vesting
// schedule. PostLaunch marks rounds that may still be recorded after the
// token launch (advisers and partners in the original sale).
type RoundSchedule struct {
	Round      string
	PostLaunch bool
	Schedule   VestingSchedule
}

// Campaign is the process-wide sale configuration and aggregate state.
// Everything except Status, LaunchTime, ClosedAt, the cumulative counters
// and the per-phase Sold counters is immutable after initialization.
type Campaign struct {
	ID            [32]byte
	Name          string
	TokenSymbol   string
	TokenDecimals uint8
	TotalSupply   uint64
	PriceScale    uint64
	StartPolicy   VestingStartPolicy
	Phases        []Phase
	Rounds        []RoundSchedule
	Status        CampaignStatus
	CreatedAt     int64
	LaunchTime    int64
	ClosedAt      int64
	TokensSold    uint64
	CostRaised    uint64
}

// Launched reports whether the token has been launched, which starts the
// campaign-wide vesting clock.
func (c *Campaign) Launched() bool {
	return c != nil && c.LaunchTime > 0
}

// Round returns the schedule bound to the round label.
func (c *Campaign) Round(label string) (*RoundSchedule, bool) {
	if c == nil {
		return nil, false
	}
	normalized := NormalizeRound(label)
	for i := range c.Rounds {
		if c.Rounds[i].Round == normalized {
			return &c.Rounds[i], true
		}
	}
	return nil, false
}

// PhaseByName returns the phase with the given name.
func (c *Campaign) PhaseByName(name string) (*Phase, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Phases {
		if c.Phases[i].Name == name {
			return &c.Phases[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the campaign so callers can mutate the copy
// without touching the stored record.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Phases = make([]Phase, len(c.Phases))
	for i, phase := range c.Phases {
		copied := phase
		copied.Tiers = append([]PriceTier(nil), phase.Tiers...)
		clone.Phases[i] = copied
	}
	clone.Rounds = append([]RoundSchedule(nil), c.Rounds...)
	return &clone
}

// Validate checks the structural invariants enforced at campaign creation:
// a positive supply, contiguous non-overlapping phases with strictly
// increasing boundaries, ascending price tiers, phase caps within the total
// supply and a valid schedule for every round.
func (c *Campaign) Validate() error {
	if c == nil {
		return ErrInvalidPhaseSchedule
	}
	if strings.TrimSpace(c.Name) == "" || c.TotalSupply == 0 || c.PriceScale == 0 {
		return ErrInvalidPhaseSchedule
	}
	if !c.StartPolicy.Valid() {
		return ErrInvalidVestingSchedule
	}
	if len(c.Phases) == 0 {
		return ErrInvalidPhaseSchedule
	}
	seen := make(map[string]struct{}, len(c.Phases))
	for i := range c.Phases {
		phase := &c.Phases[i]
		if strings.TrimSpace(phase.Name) == "" {
			return ErrInvalidPhaseSchedule
		}
		if _, dup := seen[phase.Name]; dup {
			return ErrInvalidPhaseSchedule
		}
		seen[phase.Name] = struct{}{}
		if phase.Start >= phase.End {
			return ErrInvalidPhaseSchedule
		}
		if i > 0 && phase.Start != c.Phases[i-1].End {
			return ErrInvalidPhaseSchedule
		}
		if phase.RaiseCap == 0 || phase.RaiseCap > c.TotalSupply {
			return ErrInvalidPhaseSchedule
		}
		if phase.InvestorCap > phase.RaiseCap {
			return ErrInvalidPhaseSchedule
		}
		if err := validateTiers(phase.Tiers); err != nil {
			return err
		}
	}
	if len(c.Rounds) == 0 {
		return ErrInvalidVestingSchedule
	}
	rounds := make(map[string]struct{}, len(c.Rounds))
	for i := range c.Rounds {
		label := NormalizeRound(c.Rounds[i].Round)
		if label == "" {
			return ErrInvalidVestingSchedule
		}
		if _, dup := rounds[label]; dup {
			return ErrInvalidVestingSchedule
		}
		rounds[label] = struct{}{}
		if !c.Rounds[i].Schedule.Valid() {
			return ErrInvalidVestingSchedule
		}
	}
	return nil
}

func validateTiers(tiers []PriceTier) error {
	if len(tiers) == 0 {
		return ErrInvalidPhaseSchedule
	}
	var prev uint64
	for i, tier := range tiers {
		if tier.UnitPrice == 0 {
			return ErrInvalidPhaseSchedule
		}
		if tier.UpTo == 0 {
			// Unbounded tier must be the last one.
			if i != len(tiers)-1 {
				return ErrInvalidPhaseSchedule
			}
			continue
		}
		if tier.UpTo <= prev {
			return ErrInvalidPhaseSchedule
		}
		prev = tier.UpTo
	}
	return nil
}

// NormalizeRound canonicalizes a round label.
func NormalizeRound(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
