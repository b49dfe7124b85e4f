// Package report renders a finished draft for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	autoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	tradedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Draft is what the report needs from a finished run.
type Draft struct {
	Participants []models.Participant
	Slots        []models.PickSlot
	History      []models.HistoryEntry
	Grades       []models.Grade
	Candidate    func(id string) (models.Candidate, bool)
}

// Render returns the pick board followed by the grade table.
func Render(d Draft) string {
	return lipgloss.JoinVertical(lipgloss.Left, Board(d), Grades(d))
}

// Board lists every committed pick in order.
func Board(d Draft) string {
	names := participantNames(d.Participants)
	traded := make(map[int]bool, len(d.Slots))
	for _, s := range d.Slots {
		traded[s.OverallPick] = s.Traded
	}

	lines := []string{titleStyle.Render("Draft board")}
	round := 0
	for _, h := range d.History {
		if h.Round != round {
			round = h.Round
			lines = append(lines, titleStyle.Render(fmt.Sprintf("%s round", humanize.Ordinal(round))))
		}
		name, category := h.CandidateID, ""
		if d.Candidate != nil {
			if c, ok := d.Candidate(h.CandidateID); ok {
				name, category = c.Name, c.Category
			}
		}
		line := fmt.Sprintf("%5s  %-20s %-24s %s", humanize.Ordinal(h.OverallPick), names[h.ParticipantID], name, category)
		if traded[h.OverallPick] {
			line += " " + tradedStyle.Render("(traded)")
		}
		if h.Auto {
			line += " " + autoStyle.Render("auto")
		}
		lines = append(lines, line)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// Grades lists each participant's score and letter.
func Grades(d Draft) string {
	names := participantNames(d.Participants)
	lines := []string{
		titleStyle.Render("Grades"),
		fmt.Sprintf("%-20s %8s %8s %6s %s", "team", "score", "avg", "grade", "missed"),
	}
	for _, g := range d.Grades {
		missed := "-"
		if len(g.HighNeedsMissed) > 0 {
			missed = strings.Join(g.HighNeedsMissed, ",")
		}
		lines = append(lines, fmt.Sprintf("%-20s %8s %8s %6s %s",
			names[g.ParticipantID],
			humanize.FtoaWithDigits(g.Score, 1),
			humanize.FtoaWithDigits(g.Average, 1),
			g.Letter,
			missed,
		))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func participantNames(ps []models.Participant) map[string]string {
	names := make(map[string]string, len(ps))
	for _, p := range ps {
		names[p.ID] = p.Name
		if p.Name == "" {
			names[p.ID] = p.ID
		}
	}
	return names
}
