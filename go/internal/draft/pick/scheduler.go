// Package pick owns the ordered pick sequence of a draft run: who is on the
// clock, which candidates remain, and the history of committed selections.
package pick

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// Clock is the time source used to stamp selections.
type Clock interface {
	Now() time.Time
}

// Scheduler generates and advances the pick sequence.
// It is not safe for concurrent use; the orchestrator serializes access.
type Scheduler struct {
	clock Clock

	participants []models.Participant
	byID         map[string]int
	settings     models.DraftSettings

	slots   []models.PickSlot
	current int // index of the first unused slot

	pool       []models.Candidate
	candidates map[string]models.Candidate
	history    []models.HistoryEntry
	status     models.DraftStatus
}

// NewScheduler creates a Scheduler in the NOT_STARTED state.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock:  clock,
		status: models.DraftStatusNotStarted,
	}
}

// Initialize builds the full pick sequence and moves the scheduler to IN_PROGRESS.
func (s *Scheduler) Initialize(participants []models.Participant, candidates []models.Candidate, settings models.DraftSettings) error {
	if err := validateInitialize(participants, settings); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	byID := make(map[string]int, len(participants))
	for i, p := range participants {
		byID[p.ID] = i
	}

	order := make([]string, len(participants))
	for i, p := range participants {
		order[i] = p.ID
	}

	var slots []models.PickSlot
	switch settings.DraftType {
	case models.DraftTypeSnake:
		slots = generateSnakeSlots(settings.Rounds, order, settings.ThirdRoundReversal)
	default:
		slots = generateLinearSlots(settings.Rounds, order)
	}

	pool := make([]models.Candidate, len(candidates))
	copy(pool, candidates)
	all := make(map[string]models.Candidate, len(candidates))
	for _, c := range candidates {
		all[c.ID] = c
	}

	s.participants = append([]models.Participant(nil), participants...)
	s.byID = byID
	s.settings = settings
	s.slots = slots
	s.current = 0
	s.pool = pool
	s.candidates = all
	s.history = nil
	s.status = models.DraftStatusInProgress
	return nil
}

// CurrentSlot returns the first unused slot, or false once every slot is used.
func (s *Scheduler) CurrentSlot() (models.PickSlot, bool) {
	if s.status != models.DraftStatusInProgress || s.current >= len(s.slots) {
		return models.PickSlot{}, false
	}
	return s.slots[s.current], true
}

// RecordSelection commits candidateID to the current slot on behalf of actingParticipantID.
// An empty actingParticipantID acts as the slot's current owner.
func (s *Scheduler) RecordSelection(candidateID, actingParticipantID string, auto bool) (models.HistoryEntry, error) {
	if s.status != models.DraftStatusInProgress {
		return models.HistoryEntry{}, fmt.Errorf("%w: draft status is %s", ErrInvalidSelection, s.status)
	}
	if s.current >= len(s.slots) {
		return models.HistoryEntry{}, fmt.Errorf("%w: no pick is on the clock", ErrInvalidSelection)
	}
	slot := &s.slots[s.current]
	if slot.Used() {
		return models.HistoryEntry{}, fmt.Errorf("%w: pick %d already used", ErrInvalidSelection, slot.OverallPick)
	}
	if actingParticipantID == "" {
		actingParticipantID = slot.OwnerID
	}
	if actingParticipantID != slot.OwnerID {
		return models.HistoryEntry{}, fmt.Errorf("%w: pick %d belongs to %s, not %s",
			ErrInvalidSelection, slot.OverallPick, slot.OwnerID, actingParticipantID)
	}
	idx := s.poolIndex(candidateID)
	if idx < 0 {
		return models.HistoryEntry{}, fmt.Errorf("%w: candidate %q is not available", ErrInvalidSelection, candidateID)
	}

	now := s.clock.Now()
	id := candidateID
	slot.CandidateID = &id
	slot.PickedAt = &now
	s.pool = append(s.pool[:idx], s.pool[idx+1:]...)

	entry := models.HistoryEntry{
		ID:            uuid.New(),
		Round:         slot.Round,
		Pick:          slot.Pick,
		OverallPick:   slot.OverallPick,
		ParticipantID: slot.OwnerID,
		CandidateID:   candidateID,
		Auto:          auto,
		Timestamp:     now,
	}
	s.history = append(s.history, entry)

	s.current++
	if s.current >= len(s.slots) {
		s.status = models.DraftStatusCompleted
	}
	return entry, nil
}

// ReassignOwner moves an unused slot to another participant.
func (s *Scheduler) ReassignOwner(overallPick int, newOwnerID string) error {
	if _, ok := s.byID[newOwnerID]; !ok {
		return fmt.Errorf("unknown participant %q", newOwnerID)
	}
	i := overallPick - 1
	if i < 0 || i >= len(s.slots) {
		return fmt.Errorf("%w: overall pick %d", ErrSlotNotFound, overallPick)
	}
	slot := &s.slots[i]
	if slot.Used() {
		return fmt.Errorf("%w: overall pick %d", ErrSlotUsed, overallPick)
	}
	slot.OwnerID = newOwnerID
	slot.Traded = slot.OwnerID != slot.OriginalOwnerID
	return nil
}

// Status returns the scheduler state.
func (s *Scheduler) Status() models.DraftStatus {
	return s.status
}

// Settings returns the settings the sequence was built with.
func (s *Scheduler) Settings() models.DraftSettings {
	return s.settings
}

// TotalPicks returns the length of the pick sequence.
func (s *Scheduler) TotalPicks() int {
	return len(s.slots)
}

// Slot returns the slot at overallPick.
func (s *Scheduler) Slot(overallPick int) (models.PickSlot, bool) {
	i := overallPick - 1
	if i < 0 || i >= len(s.slots) {
		return models.PickSlot{}, false
	}
	return s.slots[i], true
}

// Slots returns a copy of the full sequence.
func (s *Scheduler) Slots() []models.PickSlot {
	out := make([]models.PickSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

// SlotsOwnedBy returns every slot currently owned by participantID, used or not.
func (s *Scheduler) SlotsOwnedBy(participantID string) []models.PickSlot {
	var out []models.PickSlot
	for _, slot := range s.slots {
		if slot.OwnerID == participantID {
			out = append(out, slot)
		}
	}
	return out
}

// UnusedSlotsOwnedBy returns the unused slots currently owned by participantID.
func (s *Scheduler) UnusedSlotsOwnedBy(participantID string) []models.PickSlot {
	var out []models.PickSlot
	for _, slot := range s.slots[s.current:] {
		if slot.OwnerID == participantID && !slot.Used() {
			out = append(out, slot)
		}
	}
	return out
}

// History returns a copy of the committed selections in order.
func (s *Scheduler) History() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Remaining returns the available candidates in original pool order.
func (s *Scheduler) Remaining() []models.Candidate {
	out := make([]models.Candidate, len(s.pool))
	copy(out, s.pool)
	return out
}

// Candidate looks up any candidate from the original pool, selected or not.
func (s *Scheduler) Candidate(id string) (models.Candidate, bool) {
	c, ok := s.candidates[id]
	return c, ok
}

// Participants returns the roster in base order.
func (s *Scheduler) Participants() []models.Participant {
	return append([]models.Participant(nil), s.participants...)
}

// Participant looks up a participant by ID.
func (s *Scheduler) Participant(id string) (models.Participant, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Participant{}, false
	}
	return s.participants[i], true
}

// FilledCategories returns the categories participantID has already selected.
func (s *Scheduler) FilledCategories(participantID string) map[string]bool {
	filled := make(map[string]bool)
	for _, h := range s.history {
		if h.ParticipantID != participantID {
			continue
		}
		if c, ok := s.candidates[h.CandidateID]; ok {
			filled[c.Category] = true
		}
	}
	return filled
}

func (s *Scheduler) poolIndex(candidateID string) int {
	for i, c := range s.pool {
		if c.ID == candidateID {
			return i
		}
	}
	return -1
}

// RoundForPick recovers the round from an overall pick number.
func RoundForPick(overallPick, participantCount int) int {
	if participantCount <= 0 {
		return 0
	}
	return (overallPick + participantCount - 1) / participantCount
}

// PickInRound recovers the 1-indexed pick within its round.
func PickInRound(overallPick, participantCount int) int {
	if participantCount <= 0 {
		return 0
	}
	return (overallPick-1)%participantCount + 1
}

// generateLinearSlots repeats the base order every round.
func generateLinearSlots(rounds int, order []string) []models.PickSlot {
	slots := make([]models.PickSlot, 0, rounds*len(order))
	overallPick := 1
	for round := 1; round <= rounds; round++ {
		for pick, id := range order {
			slots = append(slots, newSlot(round, pick+1, overallPick, id))
			overallPick++
		}
	}
	return slots
}

// generateSnakeSlots reverses even rounds, and every round from the third when thirdRoundReversal is set.
func generateSnakeSlots(rounds int, order []string, thirdRoundReversal bool) []models.PickSlot {
	numTeams := len(order)
	slots := make([]models.PickSlot, 0, rounds*numTeams)

	reversed := make([]string, numTeams)
	for i, id := range order {
		reversed[numTeams-1-i] = id
	}

	overallPick := 1
	for round := 1; round <= rounds; round++ {
		roundOrder := order
		if round%2 == 0 || (thirdRoundReversal && round >= 3) {
			roundOrder = reversed
		}
		for pick, id := range roundOrder {
			slots = append(slots, newSlot(round, pick+1, overallPick, id))
			overallPick++
		}
	}
	return slots
}

func newSlot(round, pick, overallPick int, ownerID string) models.PickSlot {
	return models.PickSlot{
		ID:              uuid.New(),
		Round:           round,
		Pick:            pick,
		OverallPick:     overallPick,
		OriginalOwnerID: ownerID,
		OwnerID:         ownerID,
	}
}

func validateInitialize(participants []models.Participant, settings models.DraftSettings) error {
	if len(participants) == 0 {
		return fmt.Errorf("at least one participant is required")
	}
	if settings.Rounds <= 0 {
		return fmt.Errorf("rounds must be greater than 0")
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
	return nil
}
