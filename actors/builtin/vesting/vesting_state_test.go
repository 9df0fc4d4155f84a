package vesting_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestfi/vesting-actors/actors/builtin"
	"github.com/vestfi/vesting-actors/actors/builtin/vesting"
	"github.com/vestfi/vesting-actors/support/ipld"
	tutil "github.com/vestfi/vesting-actors/support/testing"
)

func TestVestedAmount(t *testing.T) {
	t.Run("worked example with day-denominated cliff and duration", func(t *testing.T) {
		vs := vesting.VestingSchedule{
			StartEpoch:  abi.ChainEpoch(1000),
			Cliff:       abi.ChainEpoch(90 * builtin.EpochsInDay),
			Duration:    abi.ChainEpoch(270 * builtin.EpochsInDay),
			TotalAmount: abi.NewTokenAmount(1000),
			Claimed:     big.Zero(),
		}

		// Nothing before the cliff, not even one epoch short of it.
		assert.Equal(t, big.Zero(), vs.VestedAmount(vs.StartEpoch))
		assert.Equal(t, big.Zero(), vs.VestedAmount(vs.StartEpoch+89*builtin.EpochsInDay))
		assert.Equal(t, big.Zero(), vs.VestedAmount(vs.StartEpoch+vs.Cliff-1))

		// At the cliff, the linear portion has already accrued.
		assert.Equal(t, abi.NewTokenAmount(333), vs.VestedAmount(vs.StartEpoch+vs.Cliff))

		// Midway through the duration, rounded down.
		assert.Equal(t, abi.NewTokenAmount(666), vs.VestedAmount(vs.StartEpoch+180*builtin.EpochsInDay))

		// Fully vested at and beyond the duration.
		assert.Equal(t, abi.NewTokenAmount(1000), vs.VestedAmount(vs.StartEpoch+vs.Duration))
		assert.Equal(t, abi.NewTokenAmount(1000), vs.VestedAmount(vs.StartEpoch+vs.Duration+builtin.EpochsInDay))
	})

	t.Run("zero cliff vests from the first epoch", func(t *testing.T) {
		vs := vesting.VestingSchedule{
			StartEpoch:  0,
			Cliff:       0,
			Duration:    100,
			TotalAmount: abi.NewTokenAmount(100),
			Claimed:     big.Zero(),
		}
		assert.Equal(t, big.Zero(), vs.VestedAmount(0))
		assert.Equal(t, abi.NewTokenAmount(1), vs.VestedAmount(1))
		assert.Equal(t, abi.NewTokenAmount(50), vs.VestedAmount(50))
		assert.Equal(t, abi.NewTokenAmount(100), vs.VestedAmount(100))
	})

	t.Run("cliff equal to duration makes an all-or-nothing schedule", func(t *testing.T) {
		vs := vesting.VestingSchedule{
			StartEpoch:  50,
			Cliff:       200,
			Duration:    200,
			TotalAmount: abi.NewTokenAmount(777),
			Claimed:     big.Zero(),
		}
		assert.Equal(t, big.Zero(), vs.VestedAmount(50+199))
		assert.Equal(t, abi.NewTokenAmount(777), vs.VestedAmount(50+200))
	})

	t.Run("rounding shortfall is recovered at full vesting", func(t *testing.T) {
		vs := vesting.VestingSchedule{
			StartEpoch:  0,
			Cliff:       0,
			Duration:    3,
			TotalAmount: abi.NewTokenAmount(10),
			Claimed:     big.Zero(),
		}
		assert.Equal(t, abi.NewTokenAmount(3), vs.VestedAmount(1))
		assert.Equal(t, abi.NewTokenAmount(6), vs.VestedAmount(2))
		assert.Equal(t, abi.NewTokenAmount(10), vs.VestedAmount(3))
	})
}

func TestClaimableAmount(t *testing.T) {
	vs := vesting.VestingSchedule{
		StartEpoch:  0,
		Cliff:       10,
		Duration:    100,
		TotalAmount: abi.NewTokenAmount(1000),
		Claimed:     abi.NewTokenAmount(250),
	}
	assert.Equal(t, abi.NewTokenAmount(-250), vs.ClaimableAmount(5))
	assert.Equal(t, abi.NewTokenAmount(250), vs.ClaimableAmount(50))
	assert.Equal(t, abi.NewTokenAmount(750), vs.ClaimableAmount(100))
}

func TestHasCapacity(t *testing.T) {
	st := vesting.State{TotalPromised: abi.NewTokenAmount(600)}

	assert.True(t, st.HasCapacity(abi.NewTokenAmount(1000), abi.NewTokenAmount(400)))
	assert.False(t, st.HasCapacity(abi.NewTokenAmount(1000), abi.NewTokenAmount(401)))
	assert.False(t, st.HasCapacity(abi.NewTokenAmount(500), abi.NewTokenAmount(1)))
	assert.True(t, st.HasCapacity(abi.NewTokenAmount(600), big.Zero()))
}

func TestSchedules(t *testing.T) {
	ctx := context.Background()
	token := tutil.NewIDAddr(t, 80)
	admin := tutil.NewIDAddr(t, 100)
	alice := tutil.NewIDAddr(t, 101)
	bob := tutil.NewIDAddr(t, 102)

	t.Run("load of absent schedule reports not found", func(t *testing.T) {
		store := ipld.NewADTStore(ctx)
		st, err := vesting.ConstructState(store, token, admin)
		require.NoError(t, err)

		_, found, err := st.LoadSchedule(store, alice)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("put then load round-trips a schedule", func(t *testing.T) {
		store := ipld.NewADTStore(ctx)
		st, err := vesting.ConstructState(store, token, admin)
		require.NoError(t, err)

		vs := &vesting.VestingSchedule{
			StartEpoch:  abi.ChainEpoch(5),
			Cliff:       abi.ChainEpoch(10),
			Duration:    abi.ChainEpoch(40),
			TotalAmount: abi.NewTokenAmount(300),
			Claimed:     big.Zero(),
		}
		require.NoError(t, st.PutSchedule(store, alice, vs))

		loaded, found, err := st.LoadSchedule(store, alice)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, vs, loaded)

		// Other beneficiaries are unaffected.
		_, found, err = st.LoadSchedule(store, bob)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRecords(t *testing.T) {
	ctx := context.Background()
	token := tutil.NewIDAddr(t, 80)
	admin := tutil.NewIDAddr(t, 100)
	alice := tutil.NewIDAddr(t, 101)

	store := ipld.NewADTStore(ctx)
	st, err := vesting.ConstructState(store, token, admin)
	require.NoError(t, err)

	_, found, err := st.LoadRecord(store, 0)
	require.NoError(t, err)
	assert.False(t, found)

	first := &vesting.Record{Kind: vesting.RecordTokensDeposited, Party: admin, Amount: abi.NewTokenAmount(500), Epoch: 5}
	id, err := st.AppendRecord(store, first)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	second := &vesting.Record{Kind: vesting.RecordScheduleCreated, Party: alice, Amount: abi.NewTokenAmount(200), Epoch: 6}
	id, err = st.AppendRecord(store, second)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	loaded, found, err := st.LoadRecord(store, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first, loaded)

	loaded, found, err = st.LoadRecord(store, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, loaded)

	_, found, err = st.LoadRecord(store, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStateInvariants(t *testing.T) {
	ctx := context.Background()
	token := tutil.NewIDAddr(t, 80)
	admin := tutil.NewIDAddr(t, 100)
	alice := tutil.NewIDAddr(t, 101)

	t.Run("fresh state is clean", func(t *testing.T) {
		store := ipld.NewADTStore(ctx)
		st, err := vesting.ConstructState(store, token, admin)
		require.NoError(t, err)

		summary, acc := vesting.CheckStateInvariants(st, store, big.Zero())
		assert.True(t, acc.IsEmpty(), "%v", acc.Messages())
		assert.Equal(t, 0, summary.ScheduleCount)
		assert.Equal(t, uint64(0), summary.RecordCount)
	})

	t.Run("consistent schedules and promises are clean", func(t *testing.T) {
		store := ipld.NewADTStore(ctx)
		st, err := vesting.ConstructState(store, token, admin)
		require.NoError(t, err)

		require.NoError(t, st.PutSchedule(store, alice, &vesting.VestingSchedule{
			StartEpoch:  0,
			Cliff:       10,
			Duration:    100,
			TotalAmount: abi.NewTokenAmount(400),
			Claimed:     abi.NewTokenAmount(100),
		}))
		st.TotalPromised = abi.NewTokenAmount(300)
		_, err = st.AppendRecord(store, &vesting.Record{Kind: vesting.RecordScheduleCreated, Party: alice, Amount: abi.NewTokenAmount(400), Epoch: 0})
		require.NoError(t, err)

		summary, acc := vesting.CheckStateInvariants(st, store, abi.NewTokenAmount(500))
		assert.True(t, acc.IsEmpty(), "%v", acc.Messages())
		assert.Equal(t, 1, summary.ScheduleCount)
		assert.Equal(t, uint64(1), summary.RecordCount)
	})

	t.Run("detects over-promised custody", func(t *testing.T) {
		store := ipld.NewADTStore(ctx)
		st, err := vesting.ConstructState(store, token, admin)
		require.NoError(t, err)

		require.NoError(t, st.PutSchedule(store, alice, &vesting.VestingSchedule{
			StartEpoch:  0,
			Cliff:       0,
			Duration:    100,
			TotalAmount: abi.NewTokenAmount(400),
			Claimed:     big.Zero(),
		}))
		st.TotalPromised = abi.NewTokenAmount(400)

		_, acc := vesting.CheckStateInvariants(st, store, abi.NewTokenAmount(399))
		assert.False(t, acc.IsEmpty())
	})

	t.Run("detects promise total out of sync with schedules", func(t *testing.T) {
		store := ipld.NewADTStore(ctx)
		st, err := vesting.ConstructState(store, token, admin)
		require.NoError(t, err)

		require.NoError(t, st.PutSchedule(store, alice, &vesting.VestingSchedule{
			StartEpoch:  0,
			Cliff:       0,
			Duration:    100,
			TotalAmount: abi.NewTokenAmount(400),
			Claimed:     big.Zero(),
		}))
		st.TotalPromised = abi.NewTokenAmount(399)

		_, acc := vesting.CheckStateInvariants(st, store, abi.NewTokenAmount(1000))
		assert.False(t, acc.IsEmpty())
	})

	t.Run("detects guard held at rest", func(t *testing.T) {
		store := ipld.NewADTStore(ctx)
		st, err := vesting.ConstructState(store, token, admin)
		require.NoError(t, err)
		st.Locked = true

		_, acc := vesting.CheckStateInvariants(st, store, big.Zero())
		assert.False(t, acc.IsEmpty())
	})
}
