package models

// Candidate is a selectable prospect in the draft pool.
type Candidate struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"` // position tag, e.g. 'QB', 'WR'
	Grade    float64 `json:"grade" yaml:"grade"`       // 0-10 scouting grade
	Origin   string  `json:"origin,omitempty" yaml:"origin"`
	Rank     int     `json:"rank" yaml:"-"` // position in the original pool, assigned at load
}
