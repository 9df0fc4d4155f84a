package adt_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/vestfi/vesting-actors/actors/util/adt"
	"github.com/vestfi/vesting-actors/support/ipld"
	tutil "github.com/vestfi/vesting-actors/support/testing"
)

func TestMapPutGet(t *testing.T) {
	store := ipld.NewADTStore(context.Background())
	m, err := adt.MakeEmptyMap(store, 5)
	require.NoError(t, err)

	k1 := abi.AddrKey(tutil.NewIDAddr(t, 101))
	k2 := abi.AddrKey(tutil.NewIDAddr(t, 102))

	var out cbg.CborInt
	found, err := m.Get(k1, &out)
	require.NoError(t, err)
	assert.False(t, found)

	v1 := cbg.CborInt(7)
	require.NoError(t, m.Put(k1, &v1))

	found, err = m.Get(k1, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, v1, out)

	has, err := m.Has(k2)
	require.NoError(t, err)
	assert.False(t, has)

	// Root round-trip preserves contents.
	root, err := m.Root()
	require.NoError(t, err)
	m2, err := adt.AsMap(store, root, 5)
	require.NoError(t, err)
	found, err = m2.Get(k1, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, v1, out)
}

func TestMapDelete(t *testing.T) {
	store := ipld.NewADTStore(context.Background())
	m, err := adt.MakeEmptyMap(store, 5)
	require.NoError(t, err)

	k := abi.AddrKey(tutil.NewIDAddr(t, 101))
	v := cbg.CborInt(1)
	require.NoError(t, m.Put(k, &v))
	require.NoError(t, m.Delete(k))

	has, err := m.Has(k)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMapForEach(t *testing.T) {
	store := ipld.NewADTStore(context.Background())
	m, err := adt.MakeEmptyMap(store, 5)
	require.NoError(t, err)

	addrs := map[string]cbg.CborInt{}
	for i := 0; i < 10; i++ {
		k := abi.AddrKey(tutil.NewIDAddr(t, uint64(100+i)))
		v := cbg.CborInt(i)
		require.NoError(t, m.Put(k, &v))
		addrs[k.Key()] = v
	}

	seen := 0
	var out cbg.CborInt
	err = m.ForEach(&out, func(key string) error {
		expected, ok := addrs[key]
		require.True(t, ok)
		assert.Equal(t, expected, out)
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, len(addrs), seen)
}
