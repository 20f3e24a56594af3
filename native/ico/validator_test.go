package ico

import (
	"testing"

	"github.com/stretchr/testify/require"

	"icoledger/core/sale"
	"icoledger/crypto"
)

func testKeySet(t *testing.T) ([]*crypto.PrivateKey, *sale.AdminKeySet) {
	t.Helper()
	keys := make([]*crypto.PrivateKey, sale.AdminKeySetSize)
	addrs := make([][20]byte, sale.AdminKeySetSize)
	for i := range keys {
		key, err := crypto.GeneratePrivateKey()
		require.NoError(t, err)
		keys[i] = key
		addrs[i] = key.PubKey().RawAddress()
	}
	return keys, &sale.AdminKeySet{Keys: addrs}
}

func TestRequireAdminSignersCountsDistinctKeys(t *testing.T) {
	keys, set := testKeySet(t)
	digest := operationDigest("test.op", [32]byte{1})

	auths := make([]Authorization, 0, 3)
	for _, key := range keys[:3] {
		auth, err := SignOperation(key, digest)
		require.NoError(t, err)
		auths = append(auths, auth)
	}
	require.NoError(t, requireAdminSigners(set, digest, auths, LevelCritical))
	require.ErrorIs(t, requireAdminSigners(set, digest, auths[:2], LevelCritical),
		sale.ErrMissingSignature)
}

func TestRequireAdminSignersIgnoresDuplicates(t *testing.T) {
	keys, set := testKeySet(t)
	digest := operationDigest("test.op", [32]byte{1})

	auth, err := SignOperation(keys[0], digest)
	require.NoError(t, err)
	auths := []Authorization{auth, auth, auth}
	require.ErrorIs(t, requireAdminSigners(set, digest, auths, LevelSensitive),
		sale.ErrMissingSignature)
}

func TestRequireAdminSignersIgnoresOutsiders(t *testing.T) {
	_, set := testKeySet(t)
	digest := operationDigest("test.op", [32]byte{1})

	outsider, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	auth, err := SignOperation(outsider, digest)
	require.NoError(t, err)
	require.ErrorIs(t, requireAdminSigners(set, digest, []Authorization{auth}, LevelRoutine),
		sale.ErrMissingSignature)
}

func TestRequireAdminSignersRejectsForgedSignature(t *testing.T) {
	keys, set := testKeySet(t)
	digest := operationDigest("test.op", [32]byte{1})
	other := operationDigest("test.op", [32]byte{2})

	// Valid signature over a different digest.
	auth, err := SignOperation(keys[0], other)
	require.NoError(t, err)
	require.ErrorIs(t, requireAdminSigners(set, digest, []Authorization{auth}, LevelRoutine),
		sale.ErrMissingSignature)
}

func TestRequireInvestorSignature(t *testing.T) {
	investor, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	digest := operationDigest("test.claim", [32]byte{9})

	auth, err := SignOperation(investor, digest)
	require.NoError(t, err)
	addr := investor.PubKey().RawAddress()
	require.NoError(t, requireInvestorSignature(addr, digest, []Authorization{auth}))

	stranger, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	forged, err := SignOperation(stranger, digest)
	require.NoError(t, err)
	require.ErrorIs(t, requireInvestorSignature(addr, digest, []Authorization{forged}),
		sale.ErrUnauthorized)
}

func TestValidateAdminKeys(t *testing.T) {
	_, set := testKeySet(t)
	require.NoError(t, validateAdminKeys(set.Keys))

	short := set.Keys[:sale.AdminKeySetSize-1]
	require.ErrorIs(t, validateAdminKeys(short), sale.ErrDuplicateAdminKey)

	dup := append([][20]byte(nil), set.Keys...)
	dup[4] = dup[0]
	require.ErrorIs(t, validateAdminKeys(dup), sale.ErrDuplicateAdminKey)

	zero := append([][20]byte(nil), set.Keys...)
	zero[2] = [20]byte{}
	require.ErrorIs(t, validateAdminKeys(zero), sale.ErrDuplicateAdminKey)
}
