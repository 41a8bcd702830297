package checks

import "github.com/jcfinanceiro/jcfinanceiro/internal/model"

var transitions = map[model.CheckDirection]map[model.CheckStatus][]model.CheckStatus{
	model.CheckReceived: {
		model.CheckPending:   {model.CheckDeposited, model.CheckTransferred, model.CheckCancelled},
		model.CheckDeposited: {model.CheckCleared, model.CheckReturned},
		model.CheckReturned:  {model.CheckDeposited, model.CheckCancelled},
	},
	model.CheckIssued: {
		model.CheckPending:  {model.CheckCleared, model.CheckReturned, model.CheckCancelled},
		model.CheckReturned: {model.CheckPending},
	},
}

// CanTransition reports whether a check of direction d may move from one
// status to another.
func CanTransition(d model.CheckDirection, from, to model.CheckStatus) bool {
	for _, s := range transitions[d][from] {
		if s == to {
			return true
		}
	}
	return false
}

// Next lists the statuses a check may move to.
func Next(d model.CheckDirection, from model.CheckStatus) []model.CheckStatus {
	return append([]model.CheckStatus(nil), transitions[d][from]...)
}
