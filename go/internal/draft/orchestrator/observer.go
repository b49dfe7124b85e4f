package orchestrator

import "github.com/mcdev12/mockdraft/go/internal/models"

// Observer receives engine notifications. Nil fields are skipped.
//
// Callbacks run after the engine has released its lock, so they may call
// queries and commands, Stop included. OnTick and expiry-driven notifications
// arrive on the clock goroutine.
type Observer struct {
	OnTick          func(remaining int)
	OnExpire        func()
	OnPickStarted   func(slot models.PickSlot)
	OnPickRecorded  func(entry models.HistoryEntry)
	OnTradeProposed func(proposals []models.TradeProposal)
	OnTradeAccepted func(proposal models.TradeProposal)
	OnComplete      func(grades []models.Grade)
	OnHalt          func(err error)
}

// notifications is the batch collected while the write lock is held.
type notifications []func(Observer)

func (n *notifications) add(fn func(Observer)) {
	*n = append(*n, fn)
}

func (o *Orchestrator) dispatch(batch notifications) {
	for _, fn := range batch {
		for _, obs := range o.observers {
			fn(obs)
		}
	}
}

func pickStarted(slot models.PickSlot) func(Observer) {
	return func(obs Observer) {
		if obs.OnPickStarted != nil {
			obs.OnPickStarted(slot)
		}
	}
}

func pickRecorded(entry models.HistoryEntry) func(Observer) {
	return func(obs Observer) {
		if obs.OnPickRecorded != nil {
			obs.OnPickRecorded(entry)
		}
	}
}

func tradeProposed(proposals []models.TradeProposal) func(Observer) {
	return func(obs Observer) {
		if obs.OnTradeProposed != nil {
			cp := make([]models.TradeProposal, len(proposals))
			copy(cp, proposals)
			obs.OnTradeProposed(cp)
		}
	}
}

func tradeAccepted(p models.TradeProposal) func(Observer) {
	return func(obs Observer) {
		if obs.OnTradeAccepted != nil {
			obs.OnTradeAccepted(p)
		}
	}
}

func completed(grades []models.Grade) func(Observer) {
	return func(obs Observer) {
		if obs.OnComplete != nil {
			cp := make([]models.Grade, len(grades))
			copy(cp, grades)
			obs.OnComplete(cp)
		}
	}
}

func halted(err error) func(Observer) {
	return func(obs Observer) {
		if obs.OnHalt != nil {
			obs.OnHalt(err)
		}
	}
}

func expired() func(Observer) {
	return func(obs Observer) {
		if obs.OnExpire != nil {
			obs.OnExpire()
		}
	}
}
