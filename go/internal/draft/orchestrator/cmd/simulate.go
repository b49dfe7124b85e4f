package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/draft/outbox"
	"github.com/mcdev12/mockdraft/go/internal/draft/report"
	"github.com/mcdev12/mockdraft/go/internal/draft/trade"
	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/mcdev12/mockdraft/go/internal/simconfig"
)

// simulator drives one engine run to completion. Policy-controlled owners pick
// immediately; human owners are left to the turn clock.
type simulator struct {
	engine     *orchestrator.Orchestrator
	emitter    *outbox.Emitter
	candidates map[string]models.Candidate
	settings   models.DraftSettings

	advanced chan struct{}
	expired  chan struct{}
	finished chan struct{}
	once     sync.Once
}

func newSimulator(input simconfig.Input, queue outbox.Enqueuer, clock clockwork.Clock, opts ...orchestrator.Option) (*simulator, error) {
	s := &simulator{
		candidates: make(map[string]models.Candidate, len(input.Candidates)),
		settings:   input.Settings,
		advanced:   make(chan struct{}, 1),
		expired:    make(chan struct{}, 1),
		finished:   make(chan struct{}),
	}
	for _, c := range input.Candidates {
		s.candidates[c.ID] = c
	}

	s.emitter = outbox.NewEmitter(s.draftID, queue, clock, input.Settings.TimePerPickSec, s.candidate)

	observer := orchestrator.Observer{
		OnTick: func(remaining int) {
			if slot, ok := s.engine.CurrentSlot(); ok {
				s.emitter.TimerTick(slot, remaining)
			}
		},
		OnExpire: func() {
			notify(s.expired)
		},
		OnPickStarted: s.emitter.PickStarted,
		OnPickRecorded: func(entry models.HistoryEntry) {
			s.emitter.PickMade(entry)
			notify(s.advanced)
		},
		OnTradeProposed: s.emitter.TradeProposed,
		OnTradeAccepted: s.emitter.TradeAccepted,
		OnComplete: func(grades []models.Grade) {
			s.emitter.DraftCompleted(grades, s.totalPicks())
			s.finish()
		},
		OnHalt: func(err error) {
			s.emitter.DraftHalted(err)
			s.finish()
		},
	}

	opts = append([]orchestrator.Option{
		orchestrator.WithClock(clock),
		orchestrator.WithObserver(observer),
	}, opts...)
	engine, err := orchestrator.NewOrchestrator(input.Settings, input.Participants, input.Candidates, opts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (s *simulator) finish() {
	s.once.Do(func() { close(s.finished) })
}

func (s *simulator) draftID() uuid.UUID {
	return s.engine.DraftID()
}

func (s *simulator) candidate(id string) (models.Candidate, bool) {
	c, ok := s.candidates[id]
	return c, ok
}

func (s *simulator) totalPicks() int {
	return len(s.engine.Slots())
}

// run starts the engine and advances it slot by slot until it completes,
// halts or ctx is cancelled.
func (s *simulator) run(ctx context.Context) error {
	s.emitter.DraftStarted(s.settings, s.settings.Rounds*len(s.engine.Participants()))
	if err := s.engine.Start(ctx); err != nil {
		return fmt.Errorf("start draft: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.engine.Status() != models.DraftStatusInProgress {
			break
		}

		proposals, err := s.engine.GenerateTradeProposals()
		if err != nil {
			return fmt.Errorf("generate trade proposals: %w", err)
		}
		s.resolveProposals(proposals)

		slot, ok := s.engine.CurrentSlot()
		if !ok {
			break
		}
		owner, _ := s.engine.Participant(slot.OwnerID)
		if !owner.Human {
			if _, err := s.engine.AutoPick(); err != nil {
				return fmt.Errorf("auto-pick %d: %w", slot.OverallPick, err)
			}
			continue
		}

		if err := s.awaitHuman(ctx, slot); err != nil {
			return err
		}
	}

	select {
	case <-s.finished:
	case <-ctx.Done():
		return ctx.Err()
	}
	if _, ok := s.engine.Grades(); !ok {
		return fmt.Errorf("draft ended in status %s without grades", s.engine.Status())
	}
	return nil
}

// resolveProposals has the owner on the clock accept the first acceptable
// proposal and decline the rest.
func (s *simulator) resolveProposals(proposals []models.TradeProposal) {
	accepted := false
	for _, p := range proposals {
		if !accepted && trade.Acceptable(p) {
			if _, err := s.engine.AcceptProposal(p.ID); err != nil {
				log.Debug().Err(err).Str("proposal_id", p.ID.String()).Msg("could not accept proposal")
				continue
			}
			accepted = true
			continue
		}
		if err := s.engine.DeclineProposal(p.ID); err != nil && !errors.Is(err, trade.ErrProposalNotFound) {
			log.Debug().Err(err).Str("proposal_id", p.ID.String()).Msg("could not decline proposal")
		}
	}
}

// awaitHuman waits for the pick to be made on the clock. When the clock runs
// out and the engine does not decide on its own, the best available candidate
// is recorded on the owner's behalf.
func (s *simulator) awaitHuman(ctx context.Context, slot models.PickSlot) error {
	log.Info().
		Int("overall_pick", slot.OverallPick).
		Str("owner", slot.OwnerID).
		Int("seconds", s.settings.TimePerPickSec).
		Msg("waiting on human pick")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.finished:
			return nil
		case <-s.advanced:
			if cur, ok := s.engine.CurrentSlot(); !ok || cur.OverallPick != slot.OverallPick {
				return nil
			}
		case <-s.expired:
			if s.settings.AutoDecide {
				continue
			}
			remaining := s.engine.RemainingCandidates()
			if len(remaining) == 0 {
				return orchestrator.ErrNoCandidatesAvailable
			}
			if _, err := s.engine.RecordSelection(remaining[0].ID, slot.OwnerID); err != nil {
				return fmt.Errorf("record pick %d for %s: %w", slot.OverallPick, slot.OwnerID, err)
			}
			return nil
		}
	}
}

func (s *simulator) draft() report.Draft {
	grades, _ := s.engine.Grades()
	return report.Draft{
		Participants: s.engine.Participants(),
		Slots:        s.engine.Slots(),
		History:      s.engine.History(),
		Grades:       grades,
		Candidate:    s.candidate,
	}
}
