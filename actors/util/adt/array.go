package adt

import (
	"bytes"

	amt "github.com/filecoin-project/go-amt-ipld/v4"
	"github.com/filecoin-project/go-state-types/cbor"
	cid "github.com/ipfs/go-cid"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"
)

// DefaultAmtOptions specifies default options used to construct AMTs.
// Specific arrays may specify their own options, but any common defaults should be set here.
var DefaultAmtOptions = []amt.Option{}

// Array stores a sparse sequence of values in an AMT.
type Array struct {
	root  *amt.Root
	store Store
}

// AsArray interprets a store as an AMT-based array with root `r`.
func AsArray(s Store, r cid.Cid, bitwidth int) (*Array, error) {
	options := append(DefaultAmtOptions, amt.UseTreeBitWidth(uint(bitwidth)))
	root, err := amt.LoadAMT(s.Context(), s, r, options...)
	if err != nil {
		return nil, xerrors.Errorf("failed to root: %w", err)
	}
	return &Array{
		root:  root,
		store: s,
	}, nil
}

// MakeEmptyArray creates a new array backed by an empty AMT.
func MakeEmptyArray(s Store, bitwidth int) (*Array, error) {
	options := append(DefaultAmtOptions, amt.UseTreeBitWidth(uint(bitwidth)))
	root, err := amt.NewAMT(s, options...)
	if err != nil {
		return nil, err
	}
	return &Array{
		root:  root,
		store: s,
	}, nil
}

// StoreEmptyArray creates and stores a new empty array, returning its CID.
func StoreEmptyArray(s Store, bitwidth int) (cid.Cid, error) {
	arr, err := MakeEmptyArray(s, bitwidth)
	if err != nil {
		return cid.Undef, err
	}
	return arr.Root()
}

// Root flushes the array and returns the root CID of its AMT.
func (a *Array) Root() (cid.Cid, error) {
	return a.root.Flush(a.store.Context())
}

// Set sets a value at index `i`.
func (a *Array) Set(i uint64, value cbor.Marshaler) error {
	if err := a.root.Set(a.store.Context(), i, value); err != nil {
		return xerrors.Errorf("array set failed to set index %v in root %v: %w", i, a.root, err)
	}
	return nil
}

// AppendContinuous appends a value to the end of the array, assuming the array is already
// continuously indexed from zero.
func (a *Array) AppendContinuous(value cbor.Marshaler) error {
	return a.Set(a.root.Len(), value)
}

// Get retrieves the value at index `i` into `out`, if it exists.
func (a *Array) Get(i uint64, out cbor.Unmarshaler) (bool, error) {
	if found, err := a.root.Get(a.store.Context(), i, out); err != nil {
		return false, xerrors.Errorf("failed to get index %v in root %v: %w", i, a.root, err)
	} else {
		return found, nil
	}
}

// Length returns the number of elements in the array.
func (a *Array) Length() uint64 {
	return a.root.Len()
}

// ForEach iterates over all values in the array, deserializing each into `out` and then calling
// a function with the corresponding index.
// Iteration halts if the function returns an error.
// If the output parameter is nil, deserialization is skipped.
func (a *Array) ForEach(out cbor.Unmarshaler, fn func(i int64) error) error {
	return a.root.ForEach(a.store.Context(), func(k uint64, val *cbg.Deferred) error {
		if out != nil {
			if err := out.UnmarshalCBOR(bytes.NewReader(val.Raw)); err != nil {
				return err
			}
		}
		return fn(int64(k))
	})
}
