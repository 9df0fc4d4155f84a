package mock

import (
	"context"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
)

// RuntimeBuilder is a factory for mock runtimes, facilitating common configurations.
type RuntimeBuilder struct {
	common Runtime
}

// NewBuilder creates a new runtime factory with a receiving actor address.
func NewBuilder(ctx context.Context, receiver addr.Address) RuntimeBuilder {
	m := Runtime{
		ctx:           ctx,
		epoch:         0,
		receiver:      receiver,
		caller:        addr.Undef,
		callerType:    cid.Undef,
		valueReceived: big.Zero(),
		actorCodeCIDs: make(map[addr.Address]cid.Cid),
		state:         cid.Undef,
		balance:       big.Zero(),
		inCall:        false,
		store:         make(map[cid.Cid][]byte),
		inTransaction: false,
	}
	return RuntimeBuilder{m}
}

// Build instantiates a single mock runtime with the configured values.
func (b RuntimeBuilder) Build(t testing.TB) *Runtime {
	cpy := b.common
	cpy.t = t
	cpy.actorCodeCIDs = make(map[addr.Address]cid.Cid)
	for k, v := range b.common.actorCodeCIDs {
		cpy.actorCodeCIDs[k] = v
	}
	cpy.store = make(map[cid.Cid][]byte)
	for k, v := range b.common.store {
		cpy.store[k] = v
	}
	return &cpy
}

func (b RuntimeBuilder) WithEpoch(epoch abi.ChainEpoch) RuntimeBuilder {
	b.common.epoch = epoch
	return b
}

func (b RuntimeBuilder) WithCaller(address addr.Address, code cid.Cid) RuntimeBuilder {
	b.common.caller = address
	b.common.callerType = code
	b.common.actorCodeCIDs[address] = code
	return b
}

func (b RuntimeBuilder) WithBalance(balance, received abi.TokenAmount) RuntimeBuilder {
	b.common.balance = balance
	b.common.valueReceived = received
	return b
}

func (b RuntimeBuilder) WithActorType(address addr.Address, code cid.Cid) RuntimeBuilder {
	b.common.actorCodeCIDs[address] = code
	return b
}
