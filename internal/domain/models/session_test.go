package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
)

func TestSessionState_PhasePredicates(t *testing.T) {
	tests := []struct {
		phase           models.SessionPhase
		canHandshake    bool
		canAuthenticate bool
		terminal        bool
	}{
		{models.PhaseNew, true, false, false},
		{models.PhaseHandshaking, false, false, false},
		{models.PhaseHandshaken, true, true, false},
		{models.PhaseAuthenticating, false, false, false},
		{models.PhaseTerminal, false, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			state := models.NewSessionState(models.DeviceIdentity{MAC: "00:1A:79:00:00:01"})
			state.Phase = tt.phase
			assert.Equal(t, tt.canHandshake, state.CanHandshake())
			assert.Equal(t, tt.canAuthenticate, state.CanAuthenticate())
			assert.Equal(t, tt.terminal, state.Terminal())
		})
	}
}
