package events

import (
	"encoding/hex"
	"strconv"

	"icoledger/core/types"
	"icoledger/crypto"
)

const (
	TypeCampaignInitialized     = "sale.campaign.initialized"
	TypeInvested                = "sale.invested"
	TypeInvestmentCancelled     = "sale.investment.cancelled"
	TypeLaunched                = "sale.launched"
	TypeClaimed                 = "sale.claimed"
	TypeClosed                  = "sale.closed"
	TypeReserveTransferQueued   = "sale.reserve.transfer.queued"
	TypeReserveTransferExecuted = "sale.reserve.transfer.executed"
	TypeAdminKeysUpdated        = "sale.admin.keys.updated"
)

type CampaignInitialized struct {
	Campaign    [32]byte
	Name        string
	TokenSymbol string
	TotalSupply uint64
	Phases      int
	CreatedAt   int64
}

func (CampaignInitialized) EventType() string { return TypeCampaignInitialized }

func (e CampaignInitialized) Event() *types.Event {
	return &types.Event{
		Type: TypeCampaignInitialized,
		Attributes: map[string]string{
			"campaign":    hex.EncodeToString(e.Campaign[:]),
			"name":        e.Name,
			"token":       e.TokenSymbol,
			"totalSupply": formatAmount(e.TotalSupply),
			"phases":      strconv.Itoa(e.Phases),
			"createdAt":   formatTime(e.CreatedAt),
		},
	}
}

type Invested struct {
	Campaign [32]byte
	Investor [20]byte
	Phase    string
	Round    string
	Tokens   uint64
	Cost     uint64
	Time     int64
}

func (Invested) EventType() string { return TypeInvested }

func (e Invested) Event() *types.Event {
	return &types.Event{
		Type: TypeInvested,
		Attributes: map[string]string{
			"campaign": hex.EncodeToString(e.Campaign[:]),
			"investor": investorAddress(e.Investor),
			"phase":    e.Phase,
			"round":    e.Round,
			"tokens":   formatAmount(e.Tokens),
			"cost":     formatAmount(e.Cost),
			"time":     formatTime(e.Time),
		},
	}
}

type InvestmentCancelled struct {
	Campaign [32]byte
	Investor [20]byte
	Round    string
	Tokens   uint64
	Time     int64
}

func (InvestmentCancelled) EventType() string { return TypeInvestmentCancelled }

func (e InvestmentCancelled) Event() *types.Event {
	return &types.Event{
		Type: TypeInvestmentCancelled,
		Attributes: map[string]string{
			"campaign": hex.EncodeToString(e.Campaign[:]),
			"investor": investorAddress(e.Investor),
			"round":    e.Round,
			"tokens":   formatAmount(e.Tokens),
			"time":     formatTime(e.Time),
		},
	}
}

type Launched struct {
	Campaign   [32]byte
	LaunchTime int64
	TokensSold uint64
}

func (Launched) EventType() string { return TypeLaunched }

func (e Launched) Event() *types.Event {
	return &types.Event{
		Type: TypeLaunched,
		Attributes: map[string]string{
			"campaign":   hex.EncodeToString(e.Campaign[:]),
			"launchTime": formatTime(e.LaunchTime),
			"tokensSold": formatAmount(e.TokensSold),
		},
	}
}

type Claimed struct {
	Campaign [32]byte
	Investor [20]byte
	Tokens   uint64
	Claimed  uint64
	Time     int64
}

func (Claimed) EventType() string { return TypeClaimed }

func (e Claimed) Event() *types.Event {
	return &types.Event{
		Type: TypeClaimed,
		Attributes: map[string]string{
			"campaign":     hex.EncodeToString(e.Campaign[:]),
			"investor":     investorAddress(e.Investor),
			"tokens":       formatAmount(e.Tokens),
			"totalClaimed": formatAmount(e.Claimed),
			"time":         formatTime(e.Time),
		},
	}
}

type Closed struct {
	Campaign [32]byte
	ClosedAt int64
}

func (Closed) EventType() string { return TypeClosed }

func (e Closed) Event() *types.Event {
	return &types.Event{
		Type: TypeClosed,
		Attributes: map[string]string{
			"campaign": hex.EncodeToString(e.Campaign[:]),
			"closedAt": formatTime(e.ClosedAt),
		},
	}
}

type ReserveTransferQueued struct {
	Campaign  [32]byte
	ID        string
	Recipient [20]byte
	Amount    uint64
	QueuedAt  int64
}

func (ReserveTransferQueued) EventType() string { return TypeReserveTransferQueued }

func (e ReserveTransferQueued) Event() *types.Event {
	return &types.Event{
		Type: TypeReserveTransferQueued,
		Attributes: map[string]string{
			"campaign":  hex.EncodeToString(e.Campaign[:]),
			"id":        e.ID,
			"recipient": investorAddress(e.Recipient),
			"amount":    formatAmount(e.Amount),
			"queuedAt":  formatTime(e.QueuedAt),
		},
	}
}

type ReserveTransferExecuted struct {
	Campaign  [32]byte
	ID        string
	Recipient [20]byte
	Amount    uint64
	Time      int64
}

func (ReserveTransferExecuted) EventType() string { return TypeReserveTransferExecuted }

func (e ReserveTransferExecuted) Event() *types.Event {
	return &types.Event{
		Type: TypeReserveTransferExecuted,
		Attributes: map[string]string{
			"campaign":  hex.EncodeToString(e.Campaign[:]),
			"id":        e.ID,
			"recipient": investorAddress(e.Recipient),
			"amount":    formatAmount(e.Amount),
			"time":      formatTime(e.Time),
		},
	}
}

type AdminKeysUpdated struct {
	Campaign [32]byte
	Keys     [][20]byte
}

func (AdminKeysUpdated) EventType() string { return TypeAdminKeysUpdated }

func (e AdminKeysUpdated) Event() *types.Event {
	attrs := map[string]string{
		"campaign": hex.EncodeToString(e.Campaign[:]),
		"count":    strconv.Itoa(len(e.Keys)),
	}
	for i, key := range e.Keys {
		attrs["key"+strconv.Itoa(i)] = crypto.NewAddress(crypto.AdminPrefix, key[:]).String()
	}
	return &types.Event{Type: TypeAdminKeysUpdated, Attributes: attrs}
}

func investorAddress(addr [20]byte) string {
	return crypto.NewAddress(crypto.InvestorPrefix, addr[:]).String()
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func formatTime(ts int64) string {
	return strconv.FormatInt(ts, 10)
}
