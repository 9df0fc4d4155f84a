package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/vestfi/vesting-actors/actors/builtin"
	"github.com/vestfi/vesting-actors/actors/util/adt"
)

type State struct {
	// Address of the token actor holding the custody funds.
	Token addr.Address

	// Sole principal authorized to create schedules and deposit funds.
	Admin addr.Address

	// Schedules is a HAMT[address]VestingSchedule keyed by beneficiary, at most one entry each.
	Schedules cid.Cid

	// TotalPromised is the total amount allocated to schedules and not yet claimed.
	// Invariant: TotalPromised equals the sum over all schedules of (TotalAmount - Claimed),
	// and never exceeds the custody balance held at the token actor.
	TotalPromised abi.TokenAmount

	// Records is an AMT[uint64]Record audit log of schedule creations, deposits and claims,
	// continuously indexed from zero.
	Records cid.Cid

	// Locked is set while a claim's external token transfer is in flight, blocking
	// reentrant claims for its duration.
	Locked bool
}

// VestingSchedule describes the time-locked release of a single beneficiary's allocation.
type VestingSchedule struct {
	// Epoch at which the schedule was created and vesting begins.
	StartEpoch abi.ChainEpoch

	// Delay after StartEpoch before any amount vests.
	Cliff abi.ChainEpoch

	// Span after StartEpoch over which the full amount vests linearly.
	// Invariant: 0 < Duration and Cliff <= Duration.
	Duration abi.ChainEpoch

	// Total amount allocated to the beneficiary, fixed at creation.
	TotalAmount abi.TokenAmount

	// Cumulative amount already withdrawn. Monotonically non-decreasing, bounded above by
	// the vested amount and hence by TotalAmount.
	Claimed abi.TokenAmount
}

type RecordKind int64

const (
	RecordScheduleCreated = RecordKind(iota)
	RecordTokensDeposited
	RecordTokensClaimed
)

// Record is an audit log entry for a completed state-mutating operation.
type Record struct {
	Kind   RecordKind
	Party  addr.Address
	Amount abi.TokenAmount
	Epoch  abi.ChainEpoch
}

// ConstructState creates the initial actor state with empty collections.
func ConstructState(store adt.Store, token addr.Address, admin addr.Address) (*State, error) {
	emptySchedulesCid, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty map: %w", err)
	}
	emptyRecordsCid, err := adt.StoreEmptyArray(store, builtin.DefaultAmtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty array: %w", err)
	}

	return &State{
		Token:         token,
		Admin:         admin,
		Schedules:     emptySchedulesCid,
		TotalPromised: big.Zero(),
		Records:       emptyRecordsCid,
		Locked:        false,
	}, nil
}

// VestedAmount computes the amount vested as of the given epoch: zero before the cliff,
// the full allocation once the duration has elapsed, and a linear interpolation (with
// integer floor semantics) in between. Pure; no state access.
// Any rounding shortfall in the linear range self-corrects at full vesting, when the
// terminal branch returns the exact total.
func (vs *VestingSchedule) VestedAmount(now abi.ChainEpoch) abi.TokenAmount {
	elapsed := now - vs.StartEpoch
	if elapsed < vs.Cliff {
		return big.Zero()
	}
	if elapsed >= vs.Duration {
		return vs.TotalAmount
	}

	// (TotalAmount * elapsed) / Duration
	// Division must be done last to avoid precision loss with integer values.
	return big.Div(big.Mul(vs.TotalAmount, big.NewInt(int64(elapsed))), big.NewInt(int64(vs.Duration)))
}

// ClaimableAmount computes the vested-but-unclaimed amount as of the given epoch.
func (vs *VestingSchedule) ClaimableAmount(now abi.ChainEpoch) abi.TokenAmount {
	return big.Sub(vs.VestedAmount(now), vs.Claimed)
}

// HasCapacity returns whether a new allocation of `amount` would be covered by the custody
// balance after accounting for all outstanding promises.
func (st *State) HasCapacity(custodyBalance abi.TokenAmount, amount abi.TokenAmount) bool {
	return big.Sub(custodyBalance, st.TotalPromised).GreaterThanEqual(amount)
}

// LoadSchedule fetches the schedule for a beneficiary, if one exists.
func (st *State) LoadSchedule(store adt.Store, beneficiary addr.Address) (*VestingSchedule, bool, error) {
	schedules, err := adt.AsMap(store, st.Schedules, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load schedules: %w", err)
	}

	var vs VestingSchedule
	found, err := schedules.Get(abi.AddrKey(beneficiary), &vs)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get schedule for %v: %w", beneficiary, err)
	}
	if !found {
		return nil, false, nil
	}
	return &vs, true, nil
}

// PutSchedule stores the schedule for a beneficiary, overwriting any existing entry.
func (st *State) PutSchedule(store adt.Store, beneficiary addr.Address, vs *VestingSchedule) error {
	schedules, err := adt.AsMap(store, st.Schedules, builtin.DefaultHamtBitwidth)
	if err != nil {
		return xerrors.Errorf("failed to load schedules: %w", err)
	}

	if err := schedules.Put(abi.AddrKey(beneficiary), vs); err != nil {
		return xerrors.Errorf("failed to put schedule for %v: %w", beneficiary, err)
	}

	st.Schedules, err = schedules.Root()
	if err != nil {
		return xerrors.Errorf("failed to flush schedules: %w", err)
	}
	return nil
}

// AppendRecord appends an entry to the audit log, returning its index.
func (st *State) AppendRecord(store adt.Store, rec *Record) (uint64, error) {
	records, err := adt.AsArray(store, st.Records, builtin.DefaultAmtBitwidth)
	if err != nil {
		return 0, xerrors.Errorf("failed to load records: %w", err)
	}

	id := records.Length()
	if err := records.Set(id, rec); err != nil {
		return 0, xerrors.Errorf("failed to append record %d: %w", id, err)
	}

	st.Records, err = records.Root()
	if err != nil {
		return 0, xerrors.Errorf("failed to flush records: %w", err)
	}
	return id, nil
}

// LoadRecord fetches an audit log entry by index, if it exists.
func (st *State) LoadRecord(store adt.Store, id uint64) (*Record, bool, error) {
	records, err := adt.AsArray(store, st.Records, builtin.DefaultAmtBitwidth)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load records: %w", err)
	}

	var rec Record
	found, err := records.Get(id, &rec)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get record %d: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}
	return &rec, true, nil
}
