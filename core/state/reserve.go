package state

import (
	"math/big"

	"icoledger/core/sale"
)

type storedReserve struct {
	Owner       uint32
	Kind        uint8
	Campaign    [32]byte
	Total       uint64
	Sold        uint64
	Delivered   uint64
	Transferred uint64
}

// ReservePut persists the reserve counters.
func (m *Manager) ReservePut(r *sale.Reserve) error {
	if r == nil {
		return sale.ErrNotFound
	}
	return m.store(sale.ReserveAddress(r.Campaign), &storedReserve{
		Owner:       programTag,
		Kind:        uint8(sale.KindReserve),
		Campaign:    r.Campaign,
		Total:       r.Total,
		Sold:        r.Sold,
		Delivered:   r.Delivered,
		Transferred: r.Transferred,
	})
}

// ReserveGet loads the reserve counters.
func (m *Manager) ReserveGet(campaign [32]byte) (*sale.Reserve, error) {
	var stored storedReserve
	ok, err := m.load(sale.ReserveAddress(campaign), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sale.ErrNotFound
	}
	if err := checkHeader(stored.Owner, stored.Kind, sale.KindReserve); err != nil {
		return nil, err
	}
	return &sale.Reserve{
		Campaign:    stored.Campaign,
		Total:       stored.Total,
		Sold:        stored.Sold,
		Delivered:   stored.Delivered,
		Transferred: stored.Transferred,
	}, nil
}

type storedAdminKeys struct {
	Owner    uint32
	Kind     uint8
	Campaign [32]byte
	Keys     [][20]byte
}

// AdminKeysPut persists the admin key set.
func (m *Manager) AdminKeysPut(s *sale.AdminKeySet) error {
	if s == nil {
		return sale.ErrNotFound
	}
	return m.store(sale.AdminKeysAddress(s.Campaign), &storedAdminKeys{
		Owner:    programTag,
		Kind:     uint8(sale.KindAdminKeySet),
		Campaign: s.Campaign,
		Keys:     append([][20]byte(nil), s.Keys...),
	})
}

// AdminKeysGet loads the admin key set.
func (m *Manager) AdminKeysGet(campaign [32]byte) (*sale.AdminKeySet, error) {
	var stored storedAdminKeys
	ok, err := m.load(sale.AdminKeysAddress(campaign), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sale.ErrNotFound
	}
	if err := checkHeader(stored.Owner, stored.Kind, sale.KindAdminKeySet); err != nil {
		return nil, err
	}
	return &sale.AdminKeySet{
		Campaign: stored.Campaign,
		Keys:     append([][20]byte(nil), stored.Keys...),
	}, nil
}

type storedTransfer struct {
	ID        string
	Recipient [20]byte
	Amount    uint64
	QueuedAt  *big.Int
}

type storedTimelock struct {
	Owner     uint32
	Kind      uint8
	Campaign  [32]byte
	Transfers []storedTransfer
}

// TimelockPut persists the pending reserve transfer queue.
func (m *Manager) TimelockPut(q *sale.TimelockQueue) error {
	if q == nil {
		return sale.ErrNotFound
	}
	stored := &storedTimelock{
		Owner:    programTag,
		Kind:     uint8(sale.KindTimelockQueue),
		Campaign: q.Campaign,
	}
	for _, transfer := range q.Transfers {
		stored.Transfers = append(stored.Transfers, storedTransfer{
			ID:        transfer.ID,
			Recipient: transfer.Recipient,
			Amount:    transfer.Amount,
			QueuedAt:  bigFromInt64(transfer.QueuedAt),
		})
	}
	return m.store(sale.TimelockAddress(q.Campaign), stored)
}

// TimelockGet loads the pending reserve transfer queue. A missing queue is
// returned empty rather than as an error.
func (m *Manager) TimelockGet(campaign [32]byte) (*sale.TimelockQueue, error) {
	var stored storedTimelock
	ok, err := m.load(sale.TimelockAddress(campaign), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &sale.TimelockQueue{Campaign: campaign}, nil
	}
	if err := checkHeader(stored.Owner, stored.Kind, sale.KindTimelockQueue); err != nil {
		return nil, err
	}
	out := &sale.TimelockQueue{Campaign: stored.Campaign}
	for _, transfer := range stored.Transfers {
		out.Transfers = append(out.Transfers, sale.PendingTransfer{
			ID:        transfer.ID,
			Recipient: transfer.Recipient,
			Amount:    transfer.Amount,
			QueuedAt:  int64FromBig(transfer.QueuedAt),
		})
	}
	return out, nil
}
