package crypto

import (
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestAddressEncoding(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)

	addr := key.PubKey().Address(InvestorPrefix)
	encoded := addr.String()
	require.True(t, strings.HasPrefix(encoded, string(InvestorPrefix)))

	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	require.Equal(t, addr.Bytes(), decoded.Bytes())
	require.Equal(t, InvestorPrefix, decoded.Prefix())
}

func TestSignAndRecover(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)

	var digest [32]byte
	copy(digest[:], ethcrypto.Keccak256([]byte("claim:campaign:investor")))

	sig, err := key.Sign(digest)
	require.NoError(t, err)

	signer, err := RecoverSigner(digest, sig)
	require.NoError(t, err)
	require.Equal(t, key.PubKey().RawAddress(), signer)
}

func TestRecoverSignerRejectsShortSignature(t *testing.T) {
	var digest [32]byte
	_, err := RecoverSigner(digest, []byte{0x01})
	require.Error(t, err)
}
