package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"icoledger/core/sale"
	"icoledger/crypto"
)

// Config is the service-level configuration loaded at startup.
type Config struct {
	DataDir       string `toml:"DataDir"`
	Environment   string `toml:"Environment"`
	TimelockDelay int64  `toml:"TimelockDelay"`
}

// CampaignFile is the on-disk declaration of a sale campaign. It mirrors the
// runtime campaign structure but keeps the TOML surface independent, so
// storage changes never leak into operator files.
type CampaignFile struct {
	Name          string      `toml:"Name"`
	TokenSymbol   string      `toml:"TokenSymbol"`
	TokenDecimals uint8       `toml:"TokenDecimals"`
	TotalSupply   uint64      `toml:"TotalSupply"`
	PriceScale    uint64      `toml:"PriceScale"`
	StartPolicy   string      `toml:"StartPolicy"`
	Phases        []PhaseFile `toml:"Phase"`
	Rounds        []RoundFile `toml:"Round"`
	AdminKeys     []string    `toml:"AdminKeys"`
}

// PhaseFile declares one sale phase.
type PhaseFile struct {
	Name        string     `toml:"Name"`
	Start       int64      `toml:"Start"`
	End         int64      `toml:"End"`
	RaiseCap    uint64     `toml:"RaiseCap"`
	InvestorCap uint64     `toml:"InvestorCap"`
	Tiers       []TierFile `toml:"Tier"`
}

// TierFile declares one price tier within a phase.
type TierFile struct {
	UpTo      uint64 `toml:"UpTo"`
	UnitPrice uint64 `toml:"UnitPrice"`
}

// RoundFile declares an investment round and its default vesting schedule.
type RoundFile struct {
	Round             string `toml:"Round"`
	PostLaunch        bool   `toml:"PostLaunch"`
	Cliff             int64  `toml:"Cliff"`
	Duration          int64  `toml:"Duration"`
	Granularity       int64  `toml:"Granularity"`
	InitialReleaseBps uint32 `toml:"InitialReleaseBps"`
}

// Load reads the service configuration from path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./data"
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = "local"
	}
	return cfg, nil
}

// LoadCampaign reads a campaign declaration from path and rejects unknown
// keys, so a typo in an operator file fails loudly instead of silently
// dropping a cap.
func LoadCampaign(path string) (*CampaignFile, error) {
	cf := &CampaignFile{}
	meta, err := toml.DecodeFile(path, cf)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("campaign file %s: unknown key %q", path, undecoded[0].String())
	}
	return cf, nil
}

// Campaign converts the declaration into a runtime campaign and validates
// it.
func (cf *CampaignFile) Campaign() (*sale.Campaign, error) {
	policy, err := parseStartPolicy(cf.StartPolicy)
	if err != nil {
		return nil, err
	}
	c := &sale.Campaign{
		Name:          strings.TrimSpace(cf.Name),
		TokenSymbol:   strings.TrimSpace(cf.TokenSymbol),
		TokenDecimals: cf.TokenDecimals,
		TotalSupply:   cf.TotalSupply,
		PriceScale:    cf.PriceScale,
		StartPolicy:   policy,
	}
	for _, phase := range cf.Phases {
		tiers := make([]sale.PriceTier, len(phase.Tiers))
		for i, tier := range phase.Tiers {
			tiers[i] = sale.PriceTier{UpTo: tier.UpTo, UnitPrice: tier.UnitPrice}
		}
		c.Phases = append(c.Phases, sale.Phase{
			Name:        strings.TrimSpace(phase.Name),
			Start:       phase.Start,
			End:         phase.End,
			RaiseCap:    phase.RaiseCap,
			InvestorCap: phase.InvestorCap,
			Tiers:       tiers,
		})
	}
	for _, round := range cf.Rounds {
		c.Rounds = append(c.Rounds, sale.RoundSchedule{
			Round:      sale.NormalizeRound(round.Round),
			PostLaunch: round.PostLaunch,
			Schedule: sale.VestingSchedule{
				Cliff:             round.Cliff,
				Duration:          round.Duration,
				Granularity:       round.Granularity,
				InitialReleaseBps: round.InitialReleaseBps,
			},
		})
	}
	c.ID = sale.CampaignID(c.Name, c.TokenSymbol)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// AdminKeyAddresses decodes the bech32 admin keys declared in the file.
func (cf *CampaignFile) AdminKeyAddresses() ([][20]byte, error) {
	addrs := make([][20]byte, 0, len(cf.AdminKeys))
	for _, raw := range cf.AdminKeys {
		decoded, err := crypto.DecodeAddress(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("admin key %q: %w", raw, err)
		}
		var addr [20]byte
		copy(addr[:], decoded.Bytes())
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func parseStartPolicy(raw string) (sale.VestingStartPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "campaign":
		return sale.VestingStartCampaign, nil
	case "purchase":
		return sale.VestingStartPurchase, nil
	default:
		return 0, fmt.Errorf("unknown vesting start policy %q", raw)
	}
}
