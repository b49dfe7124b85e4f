package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

func TestRender(t *testing.T) {
	d := Draft{
		Participants: []models.Participant{{ID: "a", Name: "Harbor City"}, {ID: "b"}},
		Slots: []models.PickSlot{
			{OverallPick: 1, Round: 1, OwnerID: "b", OriginalOwnerID: "a", Traded: true},
			{OverallPick: 2, Round: 1, OwnerID: "a", OriginalOwnerID: "b", Traded: true},
			{OverallPick: 3, Round: 2, OwnerID: "a", OriginalOwnerID: "a"},
		},
		History: []models.HistoryEntry{
			{OverallPick: 1, Round: 1, ParticipantID: "b", CandidateID: "c1"},
			{OverallPick: 2, Round: 1, ParticipantID: "a", CandidateID: "c2", Auto: true},
			{OverallPick: 3, Round: 2, ParticipantID: "a", CandidateID: "unknown"},
		},
		Grades: []models.Grade{
			{ParticipantID: "a", Score: 171, Average: 85.5, Letter: "B+", HighNeedsMissed: []string{"QB"}},
			{ParticipantID: "b", Score: 95, Average: 95, Letter: "A+"},
		},
		Candidate: func(id string) (models.Candidate, bool) {
			switch id {
			case "c1":
				return models.Candidate{ID: id, Name: "Sam Runner", Category: "RB"}, true
			case "c2":
				return models.Candidate{ID: id, Name: "Tate Hands", Category: "WR"}, true
			}
			return models.Candidate{}, false
		},
	}

	out := Render(d)
	for _, want := range []string{
		"Draft board", "1st round", "2nd round", "1st", "3rd",
		"Harbor City", "Sam Runner", "Tate Hands", "unknown", "(traded)", "auto",
		"Grades", "171", "85.5", "B+", "A+", "QB",
	} {
		assert.Contains(t, out, want)
	}
}
