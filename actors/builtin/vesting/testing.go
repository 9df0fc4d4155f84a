package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/vestfi/vesting-actors/actors/builtin"
	"github.com/vestfi/vesting-actors/actors/util/adt"
)

type StateSummary struct {
	ScheduleCount int
	TotalPromised abi.TokenAmount
	RecordCount   uint64
}

// CheckStateInvariants checks the structural integrity of the vesting actor state against the
// custody balance reported by the token actor, accumulating any violations.
// Intended for use between messages, when no claim is in flight.
func CheckStateInvariants(st *State, store adt.Store, custodyBalance abi.TokenAmount) (*StateSummary, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}

	acc.Require(!st.Locked, "reentrancy guard held outside a claim")
	acc.Require(st.TotalPromised.GreaterThanEqual(big.Zero()), "total promised %v is negative", st.TotalPromised)

	scheduleCount := 0
	outstanding := big.Zero()
	schedules, err := adt.AsMap(store, st.Schedules, builtin.DefaultHamtBitwidth)
	acc.RequireNoError(err, "error loading schedules")
	if err == nil {
		var vs VestingSchedule
		err = schedules.ForEach(&vs, func(key string) error {
			_, err := addr.NewFromBytes([]byte(key))
			acc.RequireNoError(err, "schedule key %x is not an address", key)
			acc1 := acc.WithPrefix("schedule %x: ", key)

			acc1.Require(vs.StartEpoch >= 0, "start epoch %v is negative", vs.StartEpoch)
			acc1.Require(vs.Duration > 0, "duration %v is not positive", vs.Duration)
			acc1.Require(vs.Cliff >= 0 && vs.Cliff <= vs.Duration, "cliff %v outside [0, %v]", vs.Cliff, vs.Duration)
			acc1.Require(vs.TotalAmount.Sign() > 0, "total amount %v is not positive", vs.TotalAmount)
			acc1.Require(vs.Claimed.GreaterThanEqual(big.Zero()), "claimed %v is negative", vs.Claimed)
			acc1.Require(vs.Claimed.LessThanEqual(vs.TotalAmount), "claimed %v exceeds total %v", vs.Claimed, vs.TotalAmount)

			scheduleCount++
			outstanding = big.Add(outstanding, big.Sub(vs.TotalAmount, vs.Claimed))
			return nil
		})
		acc.RequireNoError(err, "error iterating schedules")
	}

	acc.Require(outstanding.Equals(st.TotalPromised),
		"total promised %v does not match outstanding schedule balance %v", st.TotalPromised, outstanding)
	acc.Require(st.TotalPromised.LessThanEqual(custodyBalance),
		"total promised %v exceeds custody balance %v", st.TotalPromised, custodyBalance)

	recordCount := uint64(0)
	records, err := adt.AsArray(store, st.Records, builtin.DefaultAmtBitwidth)
	acc.RequireNoError(err, "error loading records")
	if err == nil {
		var rec Record
		err = records.ForEach(&rec, func(i int64) error {
			acc1 := acc.WithPrefix("record %d: ", i)
			acc1.Require(uint64(i) == recordCount, "records are not continuously indexed")
			acc1.Require(rec.Kind == RecordScheduleCreated || rec.Kind == RecordTokensDeposited || rec.Kind == RecordTokensClaimed,
				"unknown kind %d", rec.Kind)
			acc1.Require(rec.Amount.Sign() > 0, "amount %v is not positive", rec.Amount)
			acc1.Require(rec.Epoch >= 0, "epoch %v is negative", rec.Epoch)
			recordCount++
			return nil
		})
		acc.RequireNoError(err, "error iterating records")
	}

	return &StateSummary{
		ScheduleCount: scheduleCount,
		TotalPromised: st.TotalPromised,
		RecordCount:   recordCount,
	}, acc
}
