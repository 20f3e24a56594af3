package state

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"icoledger/core/sale"
	"icoledger/storage"
)

// programTag marks every record written by this program. A record carrying a
// different tag was written by someone else and is rejected as WrongOwner.
const programTag uint32 = 0x49434F31 // "ICO1"

// Manager reads and writes the typed sale records over a storage backend.
// Record keys are the deterministic addresses derived in core/sale, so a
// caller naming a record by (campaign, investor) always reaches the same
// stored entry.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager on top of the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) load(addr [32]byte, out interface{}) (bool, error) {
	if m == nil || m.db == nil {
		return false, fmt.Errorf("state manager unavailable")
	}
	data, err := m.db.Get(addr[:])
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("decode record: %w", err)
	}
	return true, nil
}

func (m *Manager) store(addr [32]byte, record interface{}) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("state manager unavailable")
	}
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return m.db.Put(addr[:], encoded)
}

func checkHeader(owner uint32, kind uint8, want sale.RecordKind) error {
	if owner != programTag {
		return sale.ErrWrongOwner
	}
	if sale.RecordKind(kind) != want {
		return sale.ErrWrongType
	}
	return nil
}

func bigFromInt64(v int64) *big.Int {
	return big.NewInt(v)
}

func int64FromBig(v *big.Int) int64 {
	if v == nil {
		return 0
	}
	return v.Int64()
}
