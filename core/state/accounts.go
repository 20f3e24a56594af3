package state

import (
	"math/big"

	"icoledger/core/sale"
	"icoledger/core/types"
)

type storedAccount struct {
	Owner   uint32
	Kind    uint8
	Nonce   uint64
	Balance *big.Int
}

// AccountPut persists a participant token account.
func (m *Manager) AccountPut(addr [20]byte, account *types.Account) error {
	if account == nil {
		account = types.NewAccount()
	}
	balance := big.NewInt(0)
	if account.Balance != nil {
		balance = new(big.Int).Set(account.Balance)
	}
	return m.store(sale.AccountAddress(addr), &storedAccount{
		Owner:   programTag,
		Kind:    uint8(sale.KindAccount),
		Nonce:   account.Nonce,
		Balance: balance,
	})
}

// AccountGet loads a participant token account. Missing accounts are returned
// empty so a first delivery does not need a separate creation step.
func (m *Manager) AccountGet(addr [20]byte) (*types.Account, error) {
	var stored storedAccount
	ok, err := m.load(sale.AccountAddress(addr), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.NewAccount(), nil
	}
	if err := checkHeader(stored.Owner, stored.Kind, sale.KindAccount); err != nil {
		return nil, err
	}
	account := &types.Account{Nonce: stored.Nonce, Balance: big.NewInt(0)}
	if stored.Balance != nil {
		account.Balance = new(big.Int).Set(stored.Balance)
	}
	return account, nil
}
