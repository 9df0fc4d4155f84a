package testing

import (
	"fmt"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/stretchr/testify/require"
)

// NewIDAddr creates an ID address with the given id.
func NewIDAddr(t testing.TB, id uint64) addr.Address {
	address, err := addr.NewIDAddress(id)
	require.NoError(t, err)
	return address
}

// NewActorAddr creates an actor address deterministically from the given data.
func NewActorAddr(t testing.TB, data string) addr.Address {
	address, err := addr.NewActorAddress([]byte(data))
	require.NoError(t, err)
	return address
}

// NewSECP256K1Addr creates a secp256k1 address from a fake public key derived from pubkey.
func NewSECP256K1Addr(t testing.TB, pubkey string) addr.Address {
	// the pubkey of a secp256k1 address is hashed for the payload
	address, err := addr.NewSecp256k1Address([]byte(pubkey))
	require.NoError(t, err)
	return address
}

// NewBLSAddr creates a bls address from a fake public key derived from seed.
func NewBLSAddr(t testing.TB, seed int64) addr.Address {
	buf := make([]byte, addr.BlsPublicKeyBytes)
	copy(buf, fmt.Sprintf("%d", seed))

	address, err := addr.NewBLSAddress(buf)
	require.NoError(t, err)
	return address
}
