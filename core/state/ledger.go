package state

import (
	"math/big"

	"icoledger/core/sale"
)

type storedEntry struct {
	Phase    string
	Round    string
	Tokens   uint64
	Cost     uint64
	Time     *big.Int
	Schedule *storedSchedule `rlp:"nil"`
}

type storedLedger struct {
	Owner        uint32
	Kind         uint8
	Campaign     [32]byte
	Investor     [20]byte
	Purchased    uint64
	Claimed      uint64
	VestingStart *big.Int
	Entries      []storedEntry
}

func newStoredLedger(l *sale.InvestorLedger) *storedLedger {
	if l == nil {
		return nil
	}
	stored := &storedLedger{
		Owner:        programTag,
		Kind:         uint8(sale.KindInvestorLedger),
		Campaign:     l.Campaign,
		Investor:     l.Investor,
		Purchased:    l.Purchased,
		Claimed:      l.Claimed,
		VestingStart: bigFromInt64(l.VestingStart),
	}
	for _, entry := range l.Entries {
		item := storedEntry{
			Phase:  entry.Phase,
			Round:  entry.Round,
			Tokens: entry.Tokens,
			Cost:   entry.Cost,
			Time:   bigFromInt64(entry.Time),
		}
		if entry.Schedule != nil {
			sched := newStoredSchedule(*entry.Schedule)
			item.Schedule = &sched
		}
		stored.Entries = append(stored.Entries, item)
	}
	return stored
}

func (s *storedLedger) toLedger() (*sale.InvestorLedger, error) {
	if s == nil {
		return nil, sale.ErrNotFound
	}
	if err := checkHeader(s.Owner, s.Kind, sale.KindInvestorLedger); err != nil {
		return nil, err
	}
	out := &sale.InvestorLedger{
		Campaign:     s.Campaign,
		Investor:     s.Investor,
		Purchased:    s.Purchased,
		Claimed:      s.Claimed,
		VestingStart: int64FromBig(s.VestingStart),
	}
	for _, entry := range s.Entries {
		item := sale.PurchaseEntry{
			Phase:  entry.Phase,
			Round:  entry.Round,
			Tokens: entry.Tokens,
			Cost:   entry.Cost,
			Time:   int64FromBig(entry.Time),
		}
		if entry.Schedule != nil {
			sched := entry.Schedule.toSchedule()
			item.Schedule = &sched
		}
		out.Entries = append(out.Entries, item)
	}
	return out, nil
}

// LedgerPut persists an investor ledger record.
func (m *Manager) LedgerPut(l *sale.InvestorLedger) error {
	if l == nil {
		return sale.ErrNotFound
	}
	return m.store(sale.LedgerAddress(l.Campaign, l.Investor), newStoredLedger(l))
}

// LedgerGet loads an investor ledger record.
func (m *Manager) LedgerGet(campaign [32]byte, investor [20]byte) (*sale.InvestorLedger, error) {
	var stored storedLedger
	ok, err := m.load(sale.LedgerAddress(campaign, investor), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sale.ErrNotFound
	}
	return stored.toLedger()
}

// LedgerDelete removes a fully drained investor ledger.
func (m *Manager) LedgerDelete(campaign [32]byte, investor [20]byte) error {
	if m == nil || m.db == nil {
		return sale.ErrNotFound
	}
	addr := sale.LedgerAddress(campaign, investor)
	return m.db.Delete(addr[:])
}
