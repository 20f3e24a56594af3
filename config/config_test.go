package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"icoledger/core/sale"
	"icoledger/crypto"
)

const campaignTOML = `
Name = "galaxy-sale"
TokenSymbol = "GLX"
TokenDecimals = 6
TotalSupply = 1000000
PriceScale = 1
StartPolicy = "campaign"

[[Phase]]
Name = "private"
Start = 1000
End = 2000
RaiseCap = 400000

[[Phase.Tier]]
UpTo = 500
UnitPrice = 1

[[Phase.Tier]]
UpTo = 0
UnitPrice = 2

[[Phase]]
Name = "public"
Start = 2000
End = 3000
RaiseCap = 600000
InvestorCap = 250000

[[Phase.Tier]]
UpTo = 0
UnitPrice = 3

[[Round]]
Round = "Private"
Cliff = 10
Duration = 110

[[Round]]
Round = "public"
PostLaunch = true
Duration = 100
`

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campaign.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadCampaign(t *testing.T) {
	cf, err := LoadCampaign(writeFile(t, campaignTOML))
	require.NoError(t, err)

	c, err := cf.Campaign()
	require.NoError(t, err)
	require.Equal(t, sale.CampaignID("galaxy-sale", "GLX"), c.ID)
	require.Equal(t, sale.VestingStartCampaign, c.StartPolicy)
	require.Len(t, c.Phases, 2)
	require.Len(t, c.Phases[0].Tiers, 2)
	require.Equal(t, uint64(250_000), c.Phases[1].InvestorCap)

	// Round labels are canonicalized on conversion.
	round, ok := c.Round("PRIVATE")
	require.True(t, ok)
	require.Equal(t, int64(10), round.Schedule.Cliff)
	require.NoError(t, c.Validate())
}

func TestLoadCampaignRejectsUnknownKey(t *testing.T) {
	_, err := LoadCampaign(writeFile(t, campaignTOML+"\nRaiseCapp = 5\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown key")
}

func TestCampaignRejectsUnknownPolicy(t *testing.T) {
	cf, err := LoadCampaign(writeFile(t, campaignTOML))
	require.NoError(t, err)
	cf.StartPolicy = "epoch"
	_, err = cf.Campaign()
	require.Error(t, err)
}

func TestCampaignValidationFailureSurfaces(t *testing.T) {
	cf, err := LoadCampaign(writeFile(t, campaignTOML))
	require.NoError(t, err)
	cf.Phases[1].Start = 2_500 // gap after the first phase
	_, err = cf.Campaign()
	require.ErrorIs(t, err, sale.ErrInvalidPhaseSchedule)
}

func TestAdminKeyAddresses(t *testing.T) {
	cf := &CampaignFile{}
	var want [][20]byte
	for i := 0; i < sale.AdminKeySetSize; i++ {
		key, err := crypto.GeneratePrivateKey()
		require.NoError(t, err)
		cf.AdminKeys = append(cf.AdminKeys, key.PubKey().Address(crypto.AdminPrefix).String())
		want = append(want, key.PubKey().RawAddress())
	}
	got, err := cf.AdminKeyAddresses()
	require.NoError(t, err)
	require.Equal(t, want, got)

	cf.AdminKeys[0] = "not-an-address"
	_, err = cf.AdminKeyAddresses()
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("TimelockDelay = 3600\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./data", cfg.DataDir)
	require.Equal(t, "local", cfg.Environment)
	require.Equal(t, int64(3_600), cfg.TimelockDelay)
}
