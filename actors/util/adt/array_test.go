package adt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/vestfi/vesting-actors/actors/util/adt"
	"github.com/vestfi/vesting-actors/support/ipld"
)

func TestArraySetGet(t *testing.T) {
	store := ipld.NewADTStore(context.Background())
	arr, err := adt.MakeEmptyArray(store, 3)
	require.NoError(t, err)

	var out cbg.CborInt
	found, err := arr.Get(0, &out)
	require.NoError(t, err)
	assert.False(t, found)

	v := cbg.CborInt(42)
	require.NoError(t, arr.Set(3, &v))

	found, err = arr.Get(3, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, v, out)

	root, err := arr.Root()
	require.NoError(t, err)
	arr2, err := adt.AsArray(store, root, 3)
	require.NoError(t, err)
	found, err = arr2.Get(3, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, v, out)
}

func TestArrayAppendContinuous(t *testing.T) {
	store := ipld.NewADTStore(context.Background())
	arr, err := adt.MakeEmptyArray(store, 3)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		v := cbg.CborInt(i * 10)
		require.NoError(t, arr.AppendContinuous(&v))
	}
	assert.Equal(t, uint64(5), arr.Length())

	seen := int64(0)
	var out cbg.CborInt
	err = arr.ForEach(&out, func(i int64) error {
		assert.Equal(t, seen, i)
		assert.Equal(t, cbg.CborInt(i*10), out)
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), seen)
}
