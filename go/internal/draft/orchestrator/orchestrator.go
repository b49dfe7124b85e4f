// Package orchestrator runs a draft: it owns the pick sequence, the turn clock,
// the trade negotiator and the auto-pick policy, and serializes every change
// to them behind one lock.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/mockdraft/go/internal/draft/grader"
	"github.com/mcdev12/mockdraft/go/internal/draft/pick"
	"github.com/mcdev12/mockdraft/go/internal/draft/trade"
	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the time source for the turn clock and timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithRand sets the random source used by trade generation.
func WithRand(rng trade.Rand) Option {
	return func(o *Orchestrator) { o.rng = trade.NewLockedRand(rng) }
}

// WithStrategy sets the auto-pick policy. Defaults to NeedBasedStrategy.
func WithStrategy(strat AutoPickStrategy) Option {
	return func(o *Orchestrator) { o.strat = strat }
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs) }
}

// Orchestrator is the draft engine for a single run.
type Orchestrator struct {
	settings     models.DraftSettings
	participants []models.Participant
	candidates   []models.Candidate

	clock      clockwork.Clock
	rng        trade.Rand
	strat      AutoPickStrategy
	observers  []Observer
	instanceID string

	mu         sync.RWMutex
	draftID    uuid.UUID
	sched      *pick.Scheduler
	negotiator *trade.Negotiator
	turnClock  *TurnClock
	grades     []models.Grade
	stopped    bool
	haltErr    error

	// gatedPick is the overall pick the trade gate last ran for.
	gatedPick int
}

// NewOrchestrator validates the inputs and builds an engine in the NOT_STARTED state.
func NewOrchestrator(settings models.DraftSettings, participants []models.Participant, candidates []models.Candidate, opts ...Option) (*Orchestrator, error) {
	if err := validateSettings(settings, participants, candidates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if settings.DraftType == "" {
		settings.DraftType = models.DraftTypeLinear
	}

	o := &Orchestrator{
		settings:     settings,
		participants: append([]models.Participant(nil), participants...),
		candidates:   append([]models.Candidate(nil), candidates...),
		instanceID:   uuid.New().String(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	if o.rng == nil {
		seed := settings.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = trade.NewLockedRand(rand.New(rand.NewSource(seed)))
	}
	if o.strat == nil {
		o.strat = NeedBasedStrategy{}
	}

	o.resetLocked()
	return o, nil
}

// resetLocked replaces all run state with a fresh NOT_STARTED run.
func (o *Orchestrator) resetLocked() {
	o.draftID = uuid.New()
	o.sched = pick.NewScheduler(o.clock)
	o.negotiator = trade.NewNegotiator(trade.Config{
		Frequency:             o.settings.TradeFrequency,
		FuturePickProbability: o.settings.FuturePickProbability,
	}, o.rng, o.clock)

	tc := NewTurnClock(o.clock, o.settings.TimePerPickSec)
	tc.OnTick(func(remaining int) { o.handleTick(tc, remaining) })
	tc.OnExpire(func(generation uint64) { o.handleExpiry(tc, generation) })
	o.turnClock = tc

	o.grades = nil
	o.stopped = false
	o.haltErr = nil
	o.gatedPick = 0
}

// Start builds the pick sequence and puts the first slot on the clock.
func (o *Orchestrator) Start(ctx context.Context) error {
	var batch notifications

	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if status := o.sched.Status(); status != models.DraftStatusNotStarted {
		o.mu.Unlock()
		return fmt.Errorf("cannot start draft in status %s", status)
	}
	if err := o.sched.Initialize(o.participants, o.candidates, o.settings); err != nil {
		o.mu.Unlock()
		return err
	}
	o.turnClock.Reset()
	tc := o.turnClock
	if slot, ok := o.sched.CurrentSlot(); ok {
		batch.add(pickStarted(slot))
	}
	draftID := o.draftID
	o.mu.Unlock()

	tc.Start(ctx)

	log.Info().
		Str("draft_id", draftID.String()).
		Str("instance", o.instanceID).
		Int("participants", len(o.participants)).
		Int("rounds", o.settings.Rounds).
		Str("draft_type", string(o.settings.DraftType)).
		Msg("draft started")

	o.dispatch(batch)
	return nil
}

// RecordSelection commits candidateID for the current slot. participantID must
// own the slot; empty means the current owner.
func (o *Orchestrator) RecordSelection(candidateID, participantID string) (models.HistoryEntry, error) {
	var batch notifications

	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return models.HistoryEntry{}, err
	}
	entry, err := o.commitSelectionLocked(candidateID, participantID, false, &batch)
	o.mu.Unlock()

	o.dispatch(batch)
	return entry, err
}

// AutoPick lets the policy choose for the owner of the current slot.
func (o *Orchestrator) AutoPick() (models.HistoryEntry, error) {
	var batch notifications

	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return models.HistoryEntry{}, err
	}
	entry, err := o.autoPickLocked(&batch)
	o.mu.Unlock()

	o.dispatch(batch)
	return entry, err
}

// GenerateTradeProposals runs the trade gate for the current slot and, when it
// passes, stores and returns the new proposals. The gate runs once per slot;
// later calls for the same slot return nothing. The proposals are built under
// the read lock and dropped if the board moved before they could be stored.
func (o *Orchestrator) GenerateTradeProposals() ([]models.TradeProposal, error) {
	if !o.settings.TradesEnabled {
		return nil, nil
	}

	o.mu.RLock()
	if err := o.guardLocked(); err != nil {
		o.mu.RUnlock()
		return nil, err
	}
	target, ok := o.sched.CurrentSlot()
	if !ok {
		o.mu.RUnlock()
		return nil, ErrNotInProgress
	}
	if o.gatedPick == target.OverallPick {
		o.mu.RUnlock()
		return nil, nil
	}
	proposals := o.negotiator.Propose(o.sched)
	o.mu.RUnlock()

	var batch notifications
	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	current, ok := o.sched.CurrentSlot()
	if !ok || current.OverallPick != target.OverallPick || current.OwnerID != target.OwnerID {
		o.mu.Unlock()
		log.Debug().
			Int("overall_pick", target.OverallPick).
			Msg("board moved while building proposals; dropping them")
		return nil, nil
	}
	if o.gatedPick == target.OverallPick {
		o.mu.Unlock()
		return nil, nil
	}
	o.gatedPick = target.OverallPick
	if len(proposals) == 0 {
		o.mu.Unlock()
		return nil, nil
	}
	o.negotiator.Submit(proposals)
	batch.add(tradeProposed(proposals))
	o.mu.Unlock()

	log.Info().
		Int("overall_pick", target.OverallPick).
		Str("owner", target.OwnerID).
		Int("count", len(proposals)).
		Msg("trade proposals generated")

	o.dispatch(batch)
	return proposals, nil
}

// AcceptProposal executes a pending proposal.
func (o *Orchestrator) AcceptProposal(id uuid.UUID) (models.TradeProposal, error) {
	var batch notifications

	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return models.TradeProposal{}, err
	}
	before, _ := o.sched.CurrentSlot()
	p, err := o.negotiator.Accept(id, o.sched)
	if err != nil {
		o.mu.Unlock()
		return models.TradeProposal{}, err
	}
	batch.add(tradeAccepted(p))
	o.resetIfOwnerChangedLocked(before, &batch)
	o.mu.Unlock()

	o.dispatch(batch)
	return p, nil
}

// DeclineProposal drops a pending proposal.
func (o *Orchestrator) DeclineProposal(id uuid.UUID) error {
	var batch notifications

	o.mu.Lock()
	if err := o.guardLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	before, _ := o.sched.CurrentSlot()
	if _, err := o.negotiator.Decline(id); err != nil {
		o.mu.Unlock()
		return err
	}
	o.resetIfOwnerChangedLocked(before, &batch)
	o.mu.Unlock()

	o.dispatch(batch)
	return nil
}

// Pause freezes the turn clock. Selections are still accepted while paused.
func (o *Orchestrator) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.guardInProgressLocked(); err != nil {
		return err
	}
	o.turnClock.Pause()
	log.Info().Str("draft_id", o.draftID.String()).Msg("draft paused")
	return nil
}

// Resume continues a paused turn clock.
func (o *Orchestrator) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.guardInProgressLocked(); err != nil {
		return err
	}
	o.turnClock.Resume()
	log.Info().Str("draft_id", o.draftID.String()).Msg("draft resumed")
	return nil
}

// Reset discards the run and returns to NOT_STARTED with the original inputs.
// It also clears a previous Stop or halt.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	old := o.turnClock
	o.resetLocked()
	draftID := o.draftID
	o.mu.Unlock()

	old.Stop()
	log.Info().Str("draft_id", draftID.String()).Msg("draft reset")
}

// Stop ends the run. State is left as of the last commit and later commands
// return ErrStopped. Calling Stop again is a no-op. It waits for the clock
// goroutine to exit unless it is called from an observer callback running on
// that goroutine.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	tc := o.turnClock
	draftID := o.draftID
	o.mu.Unlock()

	tc.Stop()
	log.Info().Str("draft_id", draftID.String()).Str("instance", o.instanceID).Msg("draft engine stopped")
}

func (o *Orchestrator) guardLocked() error {
	if o.haltErr != nil {
		return fmt.Errorf("%w: %w", ErrHalted, o.haltErr)
	}
	if o.stopped {
		return ErrStopped
	}
	return nil
}

func (o *Orchestrator) guardInProgressLocked() error {
	if err := o.guardLocked(); err != nil {
		return err
	}
	if o.sched.Status() != models.DraftStatusInProgress {
		return ErrNotInProgress
	}
	return nil
}

func (o *Orchestrator) autoPickLocked(batch *notifications) (models.HistoryEntry, error) {
	slot, ok := o.sched.CurrentSlot()
	if !ok {
		return models.HistoryEntry{}, ErrNotInProgress
	}
	participant, _ := o.sched.Participant(slot.OwnerID)
	unmet := participant.UnmetNeeds(o.sched.FilledCategories(slot.OwnerID))

	candidate, err := o.strat.Decide(participant, unmet, o.sched.Remaining())
	if err != nil {
		if errors.Is(err, ErrNoCandidatesAvailable) {
			o.haltLocked(err, batch)
			return models.HistoryEntry{}, fmt.Errorf("%w: %w", ErrHalted, err)
		}
		return models.HistoryEntry{}, fmt.Errorf("auto-pick for %s: %w", slot.OwnerID, err)
	}
	return o.commitSelectionLocked(candidate.ID, slot.OwnerID, true, batch)
}

// commitSelectionLocked records the pick and advances. Pending proposals are
// cleared, then either the clock resets for the next slot or the run completes.
func (o *Orchestrator) commitSelectionLocked(candidateID, participantID string, auto bool, batch *notifications) (models.HistoryEntry, error) {
	entry, err := o.sched.RecordSelection(candidateID, participantID, auto)
	if err != nil {
		return models.HistoryEntry{}, err
	}
	o.negotiator.Clear()
	batch.add(pickRecorded(entry))

	log.Info().
		Str("draft_id", o.draftID.String()).
		Int("overall_pick", entry.OverallPick).
		Str("participant", entry.ParticipantID).
		Str("candidate", entry.CandidateID).
		Bool("auto", auto).
		Msg("pick recorded")

	if o.sched.Status() == models.DraftStatusCompleted {
		o.completeLocked(batch)
		return entry, nil
	}

	o.turnClock.Reset()
	if next, ok := o.sched.CurrentSlot(); ok {
		batch.add(pickStarted(next))
	}
	return entry, nil
}

func (o *Orchestrator) completeLocked(batch *notifications) {
	o.turnClock.Halt()
	if o.grades != nil {
		return
	}
	o.grades = grader.Grade(o.sched.Participants(), o.sched.History(), o.sched.Candidate)
	batch.add(completed(o.grades))

	log.Info().
		Str("draft_id", o.draftID.String()).
		Int("picks", len(o.sched.History())).
		Msg("draft completed")
}

func (o *Orchestrator) haltLocked(err error, batch *notifications) {
	o.haltErr = err
	o.turnClock.Halt()
	batch.add(halted(err))
	log.Error().Err(err).Str("draft_id", o.draftID.String()).Msg("draft halted")
}

func (o *Orchestrator) resetIfOwnerChangedLocked(before models.PickSlot, batch *notifications) {
	after, ok := o.sched.CurrentSlot()
	if !ok || after.OwnerID == before.OwnerID {
		return
	}
	o.turnClock.Reset()
	batch.add(pickStarted(after))
}

// handleTick forwards a tick from tc if it is still the current clock.
func (o *Orchestrator) handleTick(tc *TurnClock, remaining int) {
	o.mu.RLock()
	skip := o.stopped || o.haltErr != nil || tc != o.turnClock
	o.mu.RUnlock()
	if skip {
		return
	}
	for _, obs := range o.observers {
		if obs.OnTick != nil {
			obs.OnTick(remaining)
		}
	}
}

// handleExpiry runs on the clock goroutine. tc and generation identify the
// countdown that fired; anything older than the current one is ignored.
func (o *Orchestrator) handleExpiry(tc *TurnClock, generation uint64) {
	var batch notifications

	o.mu.Lock()
	if o.stopped || o.haltErr != nil || tc != o.turnClock ||
		generation != tc.Generation() || o.sched.Status() != models.DraftStatusInProgress {
		o.mu.Unlock()
		log.Debug().Uint64("generation", generation).Msg("ignoring stale clock expiry")
		return
	}
	batch.add(expired())
	slot, _ := o.sched.CurrentSlot()
	log.Info().
		Str("draft_id", o.draftID.String()).
		Int("overall_pick", slot.OverallPick).
		Str("owner", slot.OwnerID).
		Msg("pick clock expired")

	if o.settings.AutoDecide {
		if _, err := o.autoPickLocked(&batch); err != nil {
			log.Error().Err(err).Int("overall_pick", slot.OverallPick).Msg("auto-pick on expiry failed")
		}
	}
	o.mu.Unlock()

	o.dispatch(batch)
}

// CurrentSlot returns the slot on the clock.
func (o *Orchestrator) CurrentSlot() (models.PickSlot, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sched.CurrentSlot()
}

// History returns the committed selections in order.
func (o *Orchestrator) History() []models.HistoryEntry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sched.History()
}

// RemainingCandidates returns the unselected candidates in pool order.
func (o *Orchestrator) RemainingCandidates() []models.Candidate {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.sched.Status() == models.DraftStatusNotStarted {
		return append([]models.Candidate(nil), o.candidates...)
	}
	return o.sched.Remaining()
}

// PendingProposals returns the proposals awaiting a decision.
func (o *Orchestrator) PendingProposals() []models.TradeProposal {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.negotiator.Pending()
}

// Status returns the run status.
func (o *Orchestrator) Status() models.DraftStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sched.Status()
}

// Grades returns the cached grades once the run has completed.
func (o *Orchestrator) Grades() ([]models.Grade, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.grades == nil {
		return nil, false
	}
	return append([]models.Grade(nil), o.grades...), true
}

// Regrade grades the current history without touching the cache.
func (o *Orchestrator) Regrade() []models.Grade {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return grader.Grade(o.participants, o.sched.History(), o.sched.Candidate)
}

// Slots returns the full pick sequence.
func (o *Orchestrator) Slots() []models.PickSlot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sched.Slots()
}

// DraftID identifies the current run. It changes on Reset.
func (o *Orchestrator) DraftID() uuid.UUID {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.draftID
}

// Participants returns the roster in draft order.
func (o *Orchestrator) Participants() []models.Participant {
	return append([]models.Participant(nil), o.participants...)
}

// Participant looks up a participant by id.
func (o *Orchestrator) Participant(id string) (models.Participant, bool) {
	for _, p := range o.participants {
		if p.ID == id {
			return p, true
		}
	}
	return models.Participant{}, false
}

// Settings returns the settings the engine was built with.
func (o *Orchestrator) Settings() models.DraftSettings {
	return o.settings
}

// RemainingSeconds returns the countdown for the pick on the clock.
func (o *Orchestrator) RemainingSeconds() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.turnClock.Remaining()
}

// Paused reports whether the turn clock is frozen.
func (o *Orchestrator) Paused() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.turnClock.Paused()
}

// Tick advances the turn clock by one unit, as one ticker period would.
func (o *Orchestrator) Tick() {
	o.mu.RLock()
	tc := o.turnClock
	o.mu.RUnlock()
	tc.Tick()
}

func validateSettings(settings models.DraftSettings, participants []models.Participant, candidates []models.Candidate) error {
	if settings.Rounds <= 0 {
		return fmt.Errorf("rounds must be greater than 0")
	}
	if settings.TimePerPickSec <= 0 {
		return fmt.Errorf("time per pick must be greater than 0")
	}
	switch settings.DraftType {
	case "", models.DraftTypeLinear, models.DraftTypeSnake:
	default:
		return fmt.Errorf("unknown draft type %q", settings.DraftType)
	}
	if settings.TradesEnabled && !settings.TradeFrequency.Valid() {
		return fmt.Errorf("unknown trade frequency %q", settings.TradeFrequency)
	}
	if settings.FuturePickProbability < 0 || settings.FuturePickProbability > 1 {
		return fmt.Errorf("future pick probability must be in [0,1], got %v", settings.FuturePickProbability)
	}
	if len(participants) == 0 {
		return fmt.Errorf("at least one participant is required")
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.ID == "" {
			return fmt.Errorf("participant id is required")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate participant id %q", p.ID)
		}
		seen[p.ID] = true
	}
	seenCandidates := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.ID == "" {
			return fmt.Errorf("candidate id is required")
		}
		if seenCandidates[c.ID] {
			return fmt.Errorf("duplicate candidate id %q", c.ID)
		}
		seenCandidates[c.ID] = true
	}
	return nil
}
