package ico

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"icoledger/core/sale"
	"icoledger/crypto"
)

// SecurityLevel is the number of distinct admin signatures an operation
// requires. Routine operations are driven by the sale's API key; sensitive
// and critical operations need additional administrators to co-sign.
type SecurityLevel uint8

const (
	LevelRoutine   SecurityLevel = 1
	LevelSensitive SecurityLevel = 2
	LevelCritical  SecurityLevel = 3
)

// Authorization is the signature-equivalent proof carried by an operation:
// a claimed signer and a 65-byte [R || S || V] signature over the operation
// digest.
type Authorization struct {
	Signer    [20]byte
	Signature []byte
}

// SignOperation produces an Authorization for the digest with the given key.
func SignOperation(key *crypto.PrivateKey, digest [32]byte) (Authorization, error) {
	sig, err := key.Sign(digest)
	if err != nil {
		return Authorization{}, err
	}
	return Authorization{Signer: key.PubKey().RawAddress(), Signature: sig}, nil
}

func verifyAuthorization(digest [32]byte, auth Authorization) bool {
	signer, err := crypto.RecoverSigner(digest, auth.Signature)
	if err != nil {
		return false
	}
	return signer == auth.Signer
}

// requireAdminSigners checks that at least level distinct admin keys have
// validly signed the operation digest.
func requireAdminSigners(keys *sale.AdminKeySet, digest [32]byte, auths []Authorization, level SecurityLevel) error {
	if keys == nil {
		return sale.ErrMissingSignature
	}
	seen := make(map[[20]byte]struct{}, len(auths))
	for _, auth := range auths {
		if !keys.Contains(auth.Signer) {
			continue
		}
		if _, dup := seen[auth.Signer]; dup {
			continue
		}
		if !verifyAuthorization(digest, auth) {
			continue
		}
		seen[auth.Signer] = struct{}{}
	}
	if len(seen) < int(level) {
		return sale.ErrMissingSignature
	}
	return nil
}

// requireInvestorSignature checks that the investor of record has validly
// signed the operation digest.
func requireInvestorSignature(investor [20]byte, digest [32]byte, auths []Authorization) error {
	for _, auth := range auths {
		if auth.Signer != investor {
			continue
		}
		if verifyAuthorization(digest, auth) {
			return nil
		}
	}
	return sale.ErrUnauthorized
}

// checkLedgerAddress rejects any operation naming a ledger record whose
// address does not match the deterministic derivation for the investor.
func checkLedgerAddress(named [32]byte, campaign [32]byte, investor [20]byte) error {
	if named != sale.LedgerAddress(campaign, investor) {
		return sale.ErrAddressMismatch
	}
	return nil
}

func validateAdminKeys(keys [][20]byte) error {
	if len(keys) != sale.AdminKeySetSize {
		return sale.ErrDuplicateAdminKey
	}
	seen := make(map[[20]byte]struct{}, len(keys))
	for _, key := range keys {
		if key == ([20]byte{}) {
			return sale.ErrDuplicateAdminKey
		}
		if _, dup := seen[key]; dup {
			return sale.ErrDuplicateAdminKey
		}
		seen[key] = struct{}{}
	}
	return nil
}

func operationDigest(op string, campaign [32]byte, fields ...[]byte) [32]byte {
	buf := append([]byte(op), campaign[:]...)
	for _, field := range fields {
		buf = append(buf, field...)
	}
	var digest [32]byte
	copy(digest[:], ethcrypto.Keccak256(buf))
	return digest
}

func u64Bytes(v uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, v)
	return out
}

func i64Bytes(v int64) []byte {
	return u64Bytes(uint64(v))
}

// strBytes length-prefixes a string field so adjacent variable-length
// fields in a digest cannot be re-split.
func strBytes(s string) []byte {
	out := make([]byte, 8, 8+len(s))
	binary.BigEndian.PutUint64(out, uint64(len(s)))
	return append(out, s...)
}

// scheduleBytes encodes an optional custom vesting schedule for signing.
// The leading tag keeps "no schedule" distinct from a zero-valued one.
func scheduleBytes(s *sale.VestingSchedule) []byte {
	if s == nil {
		return []byte{0}
	}
	out := make([]byte, 1, 29)
	out[0] = 1
	out = append(out, i64Bytes(s.Cliff)...)
	out = append(out, i64Bytes(s.Duration)...)
	out = append(out, i64Bytes(s.Granularity)...)
	bps := make([]byte, 4)
	binary.BigEndian.PutUint32(bps, s.InitialReleaseBps)
	return append(out, bps...)
}
