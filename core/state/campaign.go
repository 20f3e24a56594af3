package state

import (
	"math/big"

	"icoledger/core/sale"
)

type storedTier struct {
	UpTo      uint64
	UnitPrice uint64
}

type storedPhase struct {
	Name        string
	Start       *big.Int
	End         *big.Int
	Tiers       []storedTier
	RaiseCap    uint64
	InvestorCap uint64
	Sold        uint64
}

type storedSchedule struct {
	Cliff             *big.Int
	Duration          *big.Int
	Granularity       *big.Int
	InitialReleaseBps uint32
}

type storedRound struct {
	Round      string
	PostLaunch bool
	Schedule   storedSchedule
}

type storedCampaign struct {
	Owner         uint32
	Kind          uint8
	ID            [32]byte
	Name          string
	TokenSymbol   string
	TokenDecimals uint8
	TotalSupply   uint64
	PriceScale    uint64
	StartPolicy   uint8
	Phases        []storedPhase
	Rounds        []storedRound
	Status        uint8
	CreatedAt     *big.Int
	LaunchTime    *big.Int
	ClosedAt      *big.Int
	TokensSold    uint64
	CostRaised    uint64
}

func newStoredSchedule(s sale.VestingSchedule) storedSchedule {
	return storedSchedule{
		Cliff:             bigFromInt64(s.Cliff),
		Duration:          bigFromInt64(s.Duration),
		Granularity:       bigFromInt64(s.Granularity),
		InitialReleaseBps: s.InitialReleaseBps,
	}
}

func (s storedSchedule) toSchedule() sale.VestingSchedule {
	return sale.VestingSchedule{
		Cliff:             int64FromBig(s.Cliff),
		Duration:          int64FromBig(s.Duration),
		Granularity:       int64FromBig(s.Granularity),
		InitialReleaseBps: s.InitialReleaseBps,
	}
}

func newStoredCampaign(c *sale.Campaign) *storedCampaign {
	if c == nil {
		return nil
	}
	stored := &storedCampaign{
		Owner:         programTag,
		Kind:          uint8(sale.KindCampaign),
		ID:            c.ID,
		Name:          c.Name,
		TokenSymbol:   c.TokenSymbol,
		TokenDecimals: c.TokenDecimals,
		TotalSupply:   c.TotalSupply,
		PriceScale:    c.PriceScale,
		StartPolicy:   uint8(c.StartPolicy),
		Status:        uint8(c.Status),
		CreatedAt:     bigFromInt64(c.CreatedAt),
		LaunchTime:    bigFromInt64(c.LaunchTime),
		ClosedAt:      bigFromInt64(c.ClosedAt),
		TokensSold:    c.TokensSold,
		CostRaised:    c.CostRaised,
	}
	for _, phase := range c.Phases {
		tiers := make([]storedTier, len(phase.Tiers))
		for i, tier := range phase.Tiers {
			tiers[i] = storedTier{UpTo: tier.UpTo, UnitPrice: tier.UnitPrice}
		}
		stored.Phases = append(stored.Phases, storedPhase{
			Name:        phase.Name,
			Start:       bigFromInt64(phase.Start),
			End:         bigFromInt64(phase.End),
			Tiers:       tiers,
			RaiseCap:    phase.RaiseCap,
			InvestorCap: phase.InvestorCap,
			Sold:        phase.Sold,
		})
	}
	for _, round := range c.Rounds {
		stored.Rounds = append(stored.Rounds, storedRound{
			Round:      round.Round,
			PostLaunch: round.PostLaunch,
			Schedule:   newStoredSchedule(round.Schedule),
		})
	}
	return stored
}

func (s *storedCampaign) toCampaign() (*sale.Campaign, error) {
	if s == nil {
		return nil, sale.ErrNotFound
	}
	if err := checkHeader(s.Owner, s.Kind, sale.KindCampaign); err != nil {
		return nil, err
	}
	out := &sale.Campaign{
		ID:            s.ID,
		Name:          s.Name,
		TokenSymbol:   s.TokenSymbol,
		TokenDecimals: s.TokenDecimals,
		TotalSupply:   s.TotalSupply,
		PriceScale:    s.PriceScale,
		StartPolicy:   sale.VestingStartPolicy(s.StartPolicy),
		Status:        sale.CampaignStatus(s.Status),
		CreatedAt:     int64FromBig(s.CreatedAt),
		LaunchTime:    int64FromBig(s.LaunchTime),
		ClosedAt:      int64FromBig(s.ClosedAt),
		TokensSold:    s.TokensSold,
		CostRaised:    s.CostRaised,
	}
	if !out.StartPolicy.Valid() || !out.Status.Valid() {
		return nil, sale.ErrWrongType
	}
	for _, phase := range s.Phases {
		tiers := make([]sale.PriceTier, len(phase.Tiers))
		for i, tier := range phase.Tiers {
			tiers[i] = sale.PriceTier{UpTo: tier.UpTo, UnitPrice: tier.UnitPrice}
		}
		out.Phases = append(out.Phases, sale.Phase{
			Name:        phase.Name,
			Start:       int64FromBig(phase.Start),
			End:         int64FromBig(phase.End),
			Tiers:       tiers,
			RaiseCap:    phase.RaiseCap,
			InvestorCap: phase.InvestorCap,
			Sold:        phase.Sold,
		})
	}
	for _, round := range s.Rounds {
		out.Rounds = append(out.Rounds, sale.RoundSchedule{
			Round:      round.Round,
			PostLaunch: round.PostLaunch,
			Schedule:   round.Schedule.toSchedule(),
		})
	}
	return out, nil
}

// CampaignPut persists the campaign record.
func (m *Manager) CampaignPut(c *sale.Campaign) error {
	if c == nil {
		return sale.ErrNotFound
	}
	return m.store(sale.CampaignAddress(c.ID), newStoredCampaign(c))
}

// CampaignGet loads the campaign record. Missing campaigns surface as
// sale.ErrNotFound.
func (m *Manager) CampaignGet(id [32]byte) (*sale.Campaign, error) {
	var stored storedCampaign
	ok, err := m.load(sale.CampaignAddress(id), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sale.ErrNotFound
	}
	return stored.toCampaign()
}

// CampaignExists reports whether a campaign record is already stored.
func (m *Manager) CampaignExists(id [32]byte) (bool, error) {
	if m == nil || m.db == nil {
		return false, sale.ErrNotFound
	}
	addr := sale.CampaignAddress(id)
	return m.db.Has(addr[:])
}
