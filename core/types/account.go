package types

import "math/big"

// Account holds the token balance credited to a participant when vested
// tokens are delivered. Balances are integers in the token's smallest unit.
type Account struct {
	Nonce   uint64   `json:"nonce"`
	Balance *big.Int `json:"balance"`
}

// NewAccount returns an empty account with a non-nil balance.
func NewAccount() *Account {
	return &Account{Balance: big.NewInt(0)}
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount uint64) {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	a.Balance.Add(a.Balance, new(big.Int).SetUint64(amount))
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return NewAccount()
	}
	clone := &Account{Nonce: a.Nonce, Balance: big.NewInt(0)}
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	}
	return clone
}
