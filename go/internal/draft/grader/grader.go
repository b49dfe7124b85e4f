// Package grader scores each participant's haul once a draft completes.
package grader

import "github.com/mcdev12/mockdraft/go/internal/models"

// Scoring constants.
const (
	GradeWeight       = 10.0
	HighNeedBonus     = 20.0
	MediumNeedBonus   = 10.0
	LowNeedBonus      = 0.0
	MissedHighPenalty = 15.0
)

// letterThresholds map the average score per selection to a letter, best first.
var letterThresholds = []struct {
	min    float64
	letter string
}{
	{95, "A+"},
	{88, "A"},
	{80, "B+"},
	{72, "B"},
	{64, "C+"},
	{56, "C"},
	{45, "D"},
}

// CandidateLookup resolves a selected candidate by ID.
type CandidateLookup func(id string) (models.Candidate, bool)

// Grade scores every participant from the final history. It does not mutate its
// inputs, so grading the same final state twice yields identical results.
func Grade(participants []models.Participant, history []models.HistoryEntry, lookup CandidateLookup) []models.Grade {
	byParticipant := make(map[string][]models.Candidate, len(participants))
	for _, h := range history {
		c, ok := lookup(h.CandidateID)
		if !ok {
			continue
		}
		byParticipant[h.ParticipantID] = append(byParticipant[h.ParticipantID], c)
	}

	grades := make([]models.Grade, 0, len(participants))
	for _, p := range participants {
		grades = append(grades, gradeParticipant(p, byParticipant[p.ID]))
	}
	return grades
}

func gradeParticipant(p models.Participant, picks []models.Candidate) models.Grade {
	g := models.Grade{
		ParticipantID: p.ID,
		Selections:    len(picks),
		Picks:         make([]string, 0, len(picks)),
	}

	filled := make(map[string]bool, len(picks))
	for _, c := range picks {
		g.Picks = append(g.Picks, c.ID)
		g.Score += c.Grade * GradeWeight
		if need, ok := p.NeedFor(c.Category); ok {
			bonus := NeedBonus(need.Priority)
			g.NeedBonus += bonus
			g.Score += bonus
		}
		filled[c.Category] = true
	}

	for _, n := range p.Needs {
		if n.Priority == models.NeedPriorityHigh && !filled[n.Category] {
			g.HighNeedsMissed = append(g.HighNeedsMissed, n.Category)
			g.Score -= MissedHighPenalty
		}
	}

	denom := len(picks)
	if denom == 0 {
		denom = 1
	}
	g.Average = g.Score / float64(denom)
	g.Letter = Letter(g.Average)
	return g
}

// NeedBonus returns the flat bonus for filling a need of the given priority.
func NeedBonus(priority models.NeedPriority) float64 {
	switch priority {
	case models.NeedPriorityHigh:
		return HighNeedBonus
	case models.NeedPriorityMedium:
		return MediumNeedBonus
	default:
		return LowNeedBonus
	}
}

// Letter maps an average per-selection score to a letter grade.
func Letter(average float64) string {
	for _, t := range letterThresholds {
		if average >= t.min {
			return t.letter
		}
	}
	return "F"
}
