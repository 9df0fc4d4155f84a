package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	rtt "github.com/filecoin-project/go-state-types/rt"

	"github.com/vestfi/vesting-actors/actors/builtin"
	"github.com/vestfi/vesting-actors/actors/builtin/token"
	vmr "github.com/vestfi/vesting-actors/actors/runtime"
	"github.com/vestfi/vesting-actors/actors/util/adt"
)

// The vesting actor holds a pool of tokens in custody at an external token actor and
// releases per-beneficiary allocations over time. An administrator funds the custody
// account and registers schedules; each beneficiary claims the vested portion of their
// allocation as epochs pass.
type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.CreateSchedule,
		3:                         a.Deposit,
		4:                         a.Claim,
		5:                         a.GetSchedule,
		6:                         a.GetRecord,
	}
}

var _ vmr.Invokee = Actor{}

// Actor-specific exit codes.
const (
	// ErrNothingToClaim indicates no amount has vested beyond what was already claimed.
	ErrNothingToClaim = exitcode.FirstActorSpecificExitCode + iota
	// ErrReentrantCall indicates a claim was attempted while another claim was in flight.
	ErrReentrantCall
)

type ConstructorParams struct {
	// Address of the token actor holding the custody funds.
	Token addr.Address
	// Sole principal authorized to create schedules and deposit funds.
	Admin addr.Address
}

func (a Actor) Constructor(rt vmr.Runtime, params *ConstructorParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.InitActorAddr)

	if params.Token.Protocol() != addr.ID {
		rt.Abortf(exitcode.ErrIllegalArgument, "token address must be an ID-address, %v is %v", params.Token, params.Token.Protocol())
	}
	if params.Admin.Protocol() != addr.ID {
		rt.Abortf(exitcode.ErrIllegalArgument, "admin address must be an ID-address, %v is %v", params.Admin, params.Admin.Protocol())
	}

	st, err := ConstructState(adt.AsStore(rt), params.Token, params.Admin)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct state")
	rt.State().Create(st)
	return nil
}

type CreateScheduleParams struct {
	Beneficiary addr.Address
	Amount      abi.TokenAmount
	Cliff       abi.ChainEpoch
	Duration    abi.ChainEpoch
}

// CreateSchedule registers a vesting schedule for a beneficiary, starting at the current
// epoch. Admin only. The allocation must be covered by the custody balance net of all
// outstanding promises, so the custody pool can never be over-committed.
func (a Actor) CreateSchedule(rt vmr.Runtime, params *CreateScheduleParams) *abi.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Admin)

	if params.Beneficiary.Protocol() != addr.ID {
		rt.Abortf(exitcode.ErrIllegalArgument, "beneficiary must be an ID-address, %v is %v", params.Beneficiary, params.Beneficiary.Protocol())
	}
	builtin.RequireParam(rt, params.Amount.Sign() > 0, "amount must be positive, got %v", params.Amount)
	builtin.RequireParam(rt, params.Duration > 0, "duration must be positive, got %v", params.Duration)
	builtin.RequireParam(rt, params.Cliff >= 0, "cliff must be non-negative, got %v", params.Cliff)
	builtin.RequireParam(rt, params.Cliff <= params.Duration, "cliff %v exceeds duration %v", params.Cliff, params.Duration)

	custody := custodyBalance(rt, st.Token)

	rt.State().Transaction(&st, func() {
		_, found, err := st.LoadSchedule(adt.AsStore(rt), params.Beneficiary)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load schedule for %v", params.Beneficiary)
		if found {
			rt.Abortf(exitcode.ErrIllegalArgument, "beneficiary %v already has a schedule", params.Beneficiary)
		}

		if !st.HasCapacity(custody, params.Amount) {
			rt.Abortf(exitcode.ErrInsufficientFunds, "allocation %v exceeds unpromised custody balance %v",
				params.Amount, big.Sub(custody, st.TotalPromised))
		}

		err = st.PutSchedule(adt.AsStore(rt), params.Beneficiary, &VestingSchedule{
			StartEpoch:  rt.CurrEpoch(),
			Cliff:       params.Cliff,
			Duration:    params.Duration,
			TotalAmount: params.Amount,
			Claimed:     big.Zero(),
		})
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to put schedule for %v", params.Beneficiary)

		st.TotalPromised = big.Add(st.TotalPromised, params.Amount)

		_, err = st.AppendRecord(adt.AsStore(rt), &Record{
			Kind:   RecordScheduleCreated,
			Party:  params.Beneficiary,
			Amount: params.Amount,
			Epoch:  rt.CurrEpoch(),
		})
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to append record")
	})

	rt.Log(rtt.INFO, "created schedule for %v: amount %v, cliff %v, duration %v",
		params.Beneficiary, params.Amount, params.Cliff, params.Duration)
	return nil
}

type DepositParams struct {
	Amount abi.TokenAmount
}

// Deposit moves tokens from the administrator into custody via the token actor.
// Admin only. Does not alter outstanding promises; it only widens the capacity
// available to future schedules.
func (a Actor) Deposit(rt vmr.Runtime, params *DepositParams) *abi.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Admin)

	builtin.RequireParam(rt, params.Amount.Sign() > 0, "amount must be positive, got %v", params.Amount)

	_, code := rt.Send(st.Token, builtin.MethodsToken.TransferFrom, &token.TransferFromParams{
		From:   st.Admin,
		To:     rt.Message().Receiver(),
		Amount: params.Amount,
	}, big.Zero())
	builtin.RequireSuccess(rt, code, "failed to transfer %v from %v to custody", params.Amount, st.Admin)

	rt.State().Transaction(&st, func() {
		_, err := st.AppendRecord(adt.AsStore(rt), &Record{
			Kind:   RecordTokensDeposited,
			Party:  st.Admin,
			Amount: params.Amount,
			Epoch:  rt.CurrEpoch(),
		})
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to append record")
	})

	rt.Log(rtt.INFO, "deposited %v to custody", params.Amount)
	return nil
}

type ClaimReturn struct {
	Amount abi.TokenAmount
}

// Claim withdraws the caller's vested-but-unclaimed amount from custody.
// The claimed-amount bookkeeping is updated before the external transfer so a reentrant
// call cannot observe stale state, and the whole call unwinds if the transfer fails.
func (a Actor) Claim(rt vmr.Runtime, _ *abi.EmptyValue) *ClaimReturn {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	beneficiary := rt.Message().Caller()

	var st State
	var delta abi.TokenAmount
	rt.State().Transaction(&st, func() {
		if st.Locked {
			rt.Abortf(ErrReentrantCall, "claim for %v while another claim is in flight", beneficiary)
		}

		vs, found, err := st.LoadSchedule(adt.AsStore(rt), beneficiary)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load schedule for %v", beneficiary)
		if !found {
			rt.Abortf(exitcode.ErrNotFound, "no vesting schedule for %v", beneficiary)
		}

		vested := vs.VestedAmount(rt.CurrEpoch())
		delta = big.Sub(vested, vs.Claimed)
		if delta.Sign() == 0 {
			rt.Abortf(ErrNothingToClaim, "nothing vested for %v at epoch %v beyond %v already claimed",
				beneficiary, rt.CurrEpoch(), vs.Claimed)
		}

		vs.Claimed = vested
		err = st.PutSchedule(adt.AsStore(rt), beneficiary, vs)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to put schedule for %v", beneficiary)

		st.TotalPromised = big.Sub(st.TotalPromised, delta)
		st.Locked = true
	})

	// The token actor, not TotalPromised, is the ultimate source of truth for what custody holds.
	custody := custodyBalance(rt, st.Token)
	if custody.LessThan(delta) {
		rt.Abortf(exitcode.ErrIllegalState, "custody balance %v below claim %v", custody, delta)
	}

	_, code := rt.Send(st.Token, builtin.MethodsToken.Transfer, &token.TransferParams{
		To:     beneficiary,
		Amount: delta,
	}, big.Zero())
	builtin.RequireSuccess(rt, code, "failed to transfer %v to %v", delta, beneficiary)

	rt.State().Transaction(&st, func() {
		st.Locked = false
		_, err := st.AppendRecord(adt.AsStore(rt), &Record{
			Kind:   RecordTokensClaimed,
			Party:  beneficiary,
			Amount: delta,
			Epoch:  rt.CurrEpoch(),
		})
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to append record")
	})

	rt.Log(rtt.INFO, "claimed %v for %v", delta, beneficiary)
	return &ClaimReturn{Amount: delta}
}

type GetScheduleParams struct {
	Beneficiary addr.Address
}

// GetSchedule returns the vesting schedule for a beneficiary.
// Aborts with ErrNotFound if the beneficiary has none.
func (a Actor) GetSchedule(rt vmr.Runtime, params *GetScheduleParams) *VestingSchedule {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)

	vs, found, err := st.LoadSchedule(adt.AsStore(rt), params.Beneficiary)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load schedule for %v", params.Beneficiary)
	if !found {
		rt.Abortf(exitcode.ErrNotFound, "no vesting schedule for %v", params.Beneficiary)
	}
	return vs
}

type GetRecordParams struct {
	ID uint64
}

// GetRecord returns an audit log entry by index.
func (a Actor) GetRecord(rt vmr.Runtime, params *GetRecordParams) *Record {
	rt.ValidateImmediateCallerAcceptAny()
	var st State
	rt.State().Readonly(&st)

	rec, found, err := st.LoadRecord(adt.AsStore(rt), params.ID)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load record %d", params.ID)
	if !found {
		rt.Abortf(exitcode.ErrNotFound, "no record with id %d", params.ID)
	}
	return rec
}

// custodyBalance queries the token actor for the balance of the custody account (this actor).
func custodyBalance(rt vmr.Runtime, tokenActor addr.Address) abi.TokenAmount {
	ret, code := rt.Send(tokenActor, builtin.MethodsToken.BalanceOf, &token.BalanceOfParams{
		Address: rt.Message().Receiver(),
	}, big.Zero())
	builtin.RequireSuccess(rt, code, "failed to query custody balance")

	var balance abi.TokenAmount
	err := ret.Into(&balance)
	builtin.RequireNoErr(rt, err, exitcode.ErrSerialization, "failed to unmarshal custody balance")
	return balance
}
