package main

import (
	gen "github.com/whyrusleeping/cbor-gen"

	"github.com/vestfi/vesting-actors/actors/builtin/token"
	"github.com/vestfi/vesting-actors/actors/builtin/vesting"
)

func main() {
	if err := gen.WriteTupleEncodersToFile("./actors/builtin/vesting/cbor_gen.go", "vesting",
		// actor state
		vesting.State{},
		vesting.VestingSchedule{},
		vesting.Record{},
		// method params and returns
		vesting.ConstructorParams{},
		vesting.CreateScheduleParams{},
		vesting.DepositParams{},
		vesting.ClaimReturn{},
		vesting.GetScheduleParams{},
		vesting.GetRecordParams{},
	); err != nil {
		panic(err)
	}

	if err := gen.WriteTupleEncodersToFile("./actors/builtin/token/cbor_gen.go", "token",
		token.BalanceOfParams{},
		token.TransferParams{},
		token.TransferFromParams{},
	); err != nil {
		panic(err)
	}
}
