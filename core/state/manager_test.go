package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"icoledger/core/sale"
	"icoledger/core/types"
	"icoledger/storage"
)

func testCampaign() *sale.Campaign {
	return &sale.Campaign{
		ID:            sale.CampaignID("roundtrip", "RTP"),
		Name:          "roundtrip",
		TokenSymbol:   "RTP",
		TokenDecimals: 6,
		TotalSupply:   1_000_000,
		PriceScale:    1,
		StartPolicy:   sale.VestingStartCampaign,
		Status:        sale.StatusActive,
		CreatedAt:     500,
		Phases: []sale.Phase{{
			Name:     "main",
			Start:    1_000,
			End:      2_000,
			RaiseCap: 1_000_000,
			Tiers:    []sale.PriceTier{{UpTo: 100, UnitPrice: 1}, {UpTo: 0, UnitPrice: 2}},
			Sold:     250,
		}},
		Rounds: []sale.RoundSchedule{{
			Round:    "public",
			Schedule: sale.VestingSchedule{Cliff: 10, Duration: 110, Granularity: 25, InitialReleaseBps: 500},
		}},
		TokensSold: 250,
		CostRaised: 400,
	}
}

func TestCampaignRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	want := testCampaign()
	require.NoError(t, m.CampaignPut(want))

	got, err := m.CampaignGet(want.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	exists, err := m.CampaignExists(want.ID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestCampaignGetMissing(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	_, err := m.CampaignGet(sale.CampaignID("missing", "MIS"))
	require.ErrorIs(t, err, sale.ErrNotFound)
}

func TestLedgerRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	campaign := sale.CampaignID("roundtrip", "RTP")
	var investor [20]byte
	investor[0] = 0xAB

	custom := &sale.VestingSchedule{Cliff: 5, Duration: 55}
	want := &sale.InvestorLedger{
		Campaign:     campaign,
		Investor:     investor,
		Purchased:    1_000,
		Claimed:      250,
		VestingStart: 1_500,
		Entries: []sale.PurchaseEntry{
			{Phase: "main", Round: "public", Tokens: 600, Cost: 600, Time: 1_100},
			{Phase: "main", Round: "private", Tokens: 400, Cost: 800, Time: 1_200, Schedule: custom},
		},
	}
	require.NoError(t, m.LedgerPut(want))

	got, err := m.LedgerGet(campaign, investor)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, m.LedgerDelete(campaign, investor))
	_, err = m.LedgerGet(campaign, investor)
	require.ErrorIs(t, err, sale.ErrNotFound)
}

func TestReserveRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	want := &sale.Reserve{
		Campaign:    sale.CampaignID("roundtrip", "RTP"),
		Total:       1_000_000,
		Sold:        250,
		Delivered:   100,
		Transferred: 50,
	}
	require.NoError(t, m.ReservePut(want))

	got, err := m.ReserveGet(want.Campaign)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestAdminKeysRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	campaign := sale.CampaignID("roundtrip", "RTP")
	keys := make([][20]byte, sale.AdminKeySetSize)
	for i := range keys {
		keys[i][0] = byte(i + 1)
	}
	require.NoError(t, m.AdminKeysPut(&sale.AdminKeySet{Campaign: campaign, Keys: keys}))

	got, err := m.AdminKeysGet(campaign)
	require.NoError(t, err)
	require.Equal(t, keys, got.Keys)
}

func TestTimelockRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	campaign := sale.CampaignID("roundtrip", "RTP")

	empty, err := m.TimelockGet(campaign)
	require.NoError(t, err)
	require.Empty(t, empty.Transfers)

	var recipient [20]byte
	recipient[0] = 0xCD
	want := &sale.TimelockQueue{Campaign: campaign, Transfers: []sale.PendingTransfer{
		{ID: "transfer-1", Recipient: recipient, Amount: 1_234, QueuedAt: 2_000},
	}}
	require.NoError(t, m.TimelockPut(want))

	got, err := m.TimelockGet(campaign)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestAccountRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	var addr [20]byte
	addr[0] = 0xEF

	fresh, err := m.AccountGet(addr)
	require.NoError(t, err)
	require.Zero(t, fresh.Balance.Sign())

	require.NoError(t, m.AccountPut(addr, &types.Account{Nonce: 3, Balance: big.NewInt(777)}))
	got, err := m.AccountGet(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(3), got.Nonce)
	require.Equal(t, big.NewInt(777), got.Balance)
}

func TestRecordKindMismatchRejected(t *testing.T) {
	db := storage.NewMemDB()
	m := NewManager(db)
	campaign := sale.CampaignID("roundtrip", "RTP")

	// Write a reserve record under the campaign's ledger address.
	var investor [20]byte
	forged := &storedReserve{
		Owner:    programTag,
		Kind:     uint8(sale.KindReserve),
		Campaign: campaign,
		Total:    1,
	}
	encoded, err := rlp.EncodeToBytes(forged)
	require.NoError(t, err)
	addr := sale.LedgerAddress(campaign, investor)
	require.NoError(t, db.Put(addr[:], encoded))

	_, err = m.LedgerGet(campaign, investor)
	require.Error(t, err)
}

func TestForeignOwnerRejected(t *testing.T) {
	db := storage.NewMemDB()
	m := NewManager(db)
	campaign := sale.CampaignID("roundtrip", "RTP")

	forged := &storedReserve{
		Owner:    0xDEADBEEF,
		Kind:     uint8(sale.KindReserve),
		Campaign: campaign,
		Total:    1,
	}
	encoded, err := rlp.EncodeToBytes(forged)
	require.NoError(t, err)
	addr := sale.ReserveAddress(campaign)
	require.NoError(t, db.Put(addr[:], encoded))

	_, err = m.ReserveGet(campaign)
	require.ErrorIs(t, err, sale.ErrWrongOwner)
}
