package builtin

import (
	"github.com/filecoin-project/go-state-types/abi"
)

const (
	MethodSend        = abi.MethodNum(0)
	MethodConstructor = abi.MethodNum(1)
)

type tokenMethods struct {
	Constructor  abi.MethodNum
	BalanceOf    abi.MethodNum
	Transfer     abi.MethodNum
	TransferFrom abi.MethodNum
}

var MethodsToken = tokenMethods{MethodConstructor, 2, 3, 4}

type vestingMethods struct {
	Constructor    abi.MethodNum
	CreateSchedule abi.MethodNum
	Deposit        abi.MethodNum
	Claim          abi.MethodNum
	GetSchedule    abi.MethodNum
	GetRecord      abi.MethodNum
}

var MethodsVesting = vestingMethods{MethodConstructor, 2, 3, 4, 5, 6}
