package sale

// Reserve tracks the token pool backing the campaign. Sold counts tokens
// reserved for investors at purchase time, Delivered counts tokens actually
// handed over at claim time and Transferred counts administrative transfers
// out of the unsold pool. Delivered never exceeds Sold; Sold plus
// Transferred never exceeds Total.
type Reserve struct {
	Campaign    [32]byte
	Total       uint64
	Sold        uint64
	Delivered   uint64
	Transferred uint64
}

// Unsold returns the amount still available for administrative transfers.
func (r *Reserve) Unsold() uint64 {
	if r == nil {
		return 0
	}
	committed := r.Sold + r.Transferred
	if committed > r.Total {
		return 0
	}
	return r.Total - committed
}

// Clone returns a copy of the reserve counters.
func (r *Reserve) Clone() *Reserve {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// AdminKeySetSize is the number of keys every campaign admin set carries.
const AdminKeySetSize = 5

// AdminKeySet holds the administrator keys authorized to sign campaign
// operations. Signer-count requirements per operation are enforced by the
// engine's security levels.
type AdminKeySet struct {
	Campaign [32]byte
	Keys     [][20]byte
}

// Contains reports whether the address is one of the admin keys.
func (s *AdminKeySet) Contains(addr [20]byte) bool {
	if s == nil {
		return false
	}
	for _, key := range s.Keys {
		if key == addr {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the key set.
func (s *AdminKeySet) Clone() *AdminKeySet {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Keys = make([][20]byte, len(s.Keys))
	copy(clone.Keys, s.Keys)
	return &clone
}

// PendingTransfer is a timelocked administrative transfer from the unsold
// reserve. It is queued first and may only execute after the timelock delay.
type PendingTransfer struct {
	ID        string
	Recipient [20]byte
	Amount    uint64
	QueuedAt  int64
}

// TimelockQueue holds the pending reserve transfers for a campaign.
type TimelockQueue struct {
	Campaign  [32]byte
	Transfers []PendingTransfer
}

// Clone returns a deep copy of the queue.
func (q *TimelockQueue) Clone() *TimelockQueue {
	if q == nil {
		return nil
	}
	clone := *q
	clone.Transfers = append([]PendingTransfer(nil), q.Transfers...)
	return &clone
}
