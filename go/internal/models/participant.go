package models

// NeedPriority is the tier of a participant's positional need.
type NeedPriority string

const (
	NeedPriorityHigh   NeedPriority = "HIGH"
	NeedPriorityMedium NeedPriority = "MEDIUM"
	NeedPriorityLow    NeedPriority = "LOW"
)

// Rank orders priorities so that a higher value is more urgent.
func (p NeedPriority) Rank() int {
	switch p {
	case NeedPriorityHigh:
		return 3
	case NeedPriorityMedium:
		return 2
	case NeedPriorityLow:
		return 1
	}
	return 0
}

// Need is a category the participant wants to fill.
type Need struct {
	Category string       `json:"category" yaml:"category"`
	Priority NeedPriority `json:"priority" yaml:"priority"`
}

// Participant is a drafting team. Roster position determines its original slots.
type Participant struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Human bool   `json:"human" yaml:"human"`
	Needs []Need `json:"needs" yaml:"needs"`
}

// NeedFor returns the most urgent need matching category, if any.
func (p Participant) NeedFor(category string) (Need, bool) {
	var best Need
	found := false
	for _, n := range p.Needs {
		if n.Category != category {
			continue
		}
		if !found || n.Priority.Rank() > best.Priority.Rank() {
			best = n
			found = true
		}
	}
	return best, found
}

// UnmetNeeds returns the needs whose category is not in filled, preserving order.
func (p Participant) UnmetNeeds(filled map[string]bool) []Need {
	unmet := make([]Need, 0, len(p.Needs))
	for _, n := range p.Needs {
		if !filled[n.Category] {
			unmet = append(unmet, n)
		}
	}
	return unmet
}
