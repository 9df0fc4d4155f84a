package exported

import (
	"github.com/vestfi/vesting-actors/actors/builtin/vesting"
	"github.com/vestfi/vesting-actors/actors/runtime"
)

// BuiltinActors returns the exported actors of this module, for registration with a VM.
func BuiltinActors() []runtime.Invokee {
	return []runtime.Invokee{
		vesting.Actor{},
	}
}
