package sale

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

// Record addresses are derived deterministically from the record kind and
// the identifiers the record is scoped to. Operations naming a record must
// name the derived address; anything else is a substitution attempt.

// CampaignID derives the campaign identifier from its name and token symbol.
func CampaignID(name, symbol string) [32]byte {
	var id [32]byte
	copy(id[:], ethcrypto.Keccak256([]byte("campaign"), []byte(name), []byte(symbol)))
	return id
}

// CampaignAddress derives the storage address of a campaign record.
func CampaignAddress(id [32]byte) [32]byte {
	return derive(KindCampaign, id[:])
}

// LedgerAddress derives the storage address of an investor ledger record.
func LedgerAddress(campaign [32]byte, investor [20]byte) [32]byte {
	return derive(KindInvestorLedger, campaign[:], investor[:])
}

// ReserveAddress derives the storage address of the campaign reserve record.
func ReserveAddress(campaign [32]byte) [32]byte {
	return derive(KindReserve, campaign[:])
}

// AdminKeysAddress derives the storage address of the admin key set record.
func AdminKeysAddress(campaign [32]byte) [32]byte {
	return derive(KindAdminKeySet, campaign[:])
}

// TimelockAddress derives the storage address of the timelock queue record.
func TimelockAddress(campaign [32]byte) [32]byte {
	return derive(KindTimelockQueue, campaign[:])
}

// AccountAddress derives the storage address of a participant token account.
func AccountAddress(addr [20]byte) [32]byte {
	return derive(KindAccount, addr[:])
}

func derive(kind RecordKind, parts ...[]byte) [32]byte {
	buf := []byte{byte(kind)}
	for _, part := range parts {
		buf = append(buf, part...)
	}
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(buf))
	return out
}
