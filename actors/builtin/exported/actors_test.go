package exported_test

import (
	"testing"

	"github.com/vestfi/vesting-actors/actors/builtin/exported"
	"github.com/vestfi/vesting-actors/support/mock"
)

func TestExportedActorsHaveValidMethods(t *testing.T) {
	for _, actor := range exported.BuiltinActors() {
		mock.CheckActorExports(t, actor)
	}
}
