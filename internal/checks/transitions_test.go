package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		dir      model.CheckDirection
		from, to model.CheckStatus
		want     bool
	}{
		{model.CheckReceived, model.CheckPending, model.CheckDeposited, true},
		{model.CheckReceived, model.CheckPending, model.CheckTransferred, true},
		{model.CheckReceived, model.CheckPending, model.CheckCleared, false},
		{model.CheckReceived, model.CheckDeposited, model.CheckCleared, true},
		{model.CheckReceived, model.CheckDeposited, model.CheckReturned, true},
		{model.CheckReceived, model.CheckReturned, model.CheckDeposited, true},
		{model.CheckReceived, model.CheckReturned, model.CheckCancelled, true},
		{model.CheckReceived, model.CheckCleared, model.CheckReturned, false},
		{model.CheckReceived, model.CheckTransferred, model.CheckPending, false},
		{model.CheckIssued, model.CheckPending, model.CheckCleared, true},
		{model.CheckIssued, model.CheckPending, model.CheckDeposited, false},
		{model.CheckIssued, model.CheckReturned, model.CheckPending, true},
		{model.CheckIssued, model.CheckCancelled, model.CheckPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.dir, tt.from, tt.to), "%s %s -> %s", tt.dir, tt.from, tt.to)
	}
}

func TestNext(t *testing.T) {
	assert.ElementsMatch(t,
		[]model.CheckStatus{model.CheckCleared, model.CheckReturned},
		Next(model.CheckReceived, model.CheckDeposited))
	assert.Empty(t, Next(model.CheckIssued, model.CheckCleared))
}
