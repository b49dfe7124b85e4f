package models

// Grade is the post-draft evaluation of one participant.
type Grade struct {
	ParticipantID   string   `json:"participant_id"`
	Score           float64  `json:"score"`
	Average         float64  `json:"average"`
	Letter          string   `json:"letter"`
	Selections      int      `json:"selections"`
	NeedBonus       float64  `json:"need_bonus"`
	HighNeedsMissed []string `json:"high_needs_missed,omitempty"`
	Picks           []string `json:"picks"`
}
