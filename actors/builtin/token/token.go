// Package token declares the message surface of the fungible token actor that holds
// custody funds for the vesting actor. The token actor itself is external to this repo;
// only the method parameters needed to call it are defined here.
package token

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
)

type BalanceOfParams struct {
	Address addr.Address
}

// The return value of BalanceOf is a bare abi.TokenAmount.

type TransferParams struct {
	To     addr.Address
	Amount abi.TokenAmount
}

type TransferFromParams struct {
	From   addr.Address
	To     addr.Address
	Amount abi.TokenAmount
}
