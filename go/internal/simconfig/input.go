package simconfig

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// ErrInvalidInput is returned when an input file fails validation.
var ErrInvalidInput = errors.New("invalid input")

// Input is the league a simulation runs over.
type Input struct {
	Settings     models.DraftSettings `yaml:"settings"`
	Participants []models.Participant `yaml:"participants"`
	Candidates   []models.Candidate   `yaml:"candidates"`
}

// LoadInput reads a YAML input file. Keys present under settings override base.
func LoadInput(path string, base models.DraftSettings) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("failed to read input file: %w", err)
	}

	in := Input{Settings: base}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	in.assignRanks()
	return in, nil
}

// Validate checks ids, grades and need priorities.
func (in Input) Validate() error {
	if len(in.Participants) == 0 {
		return fmt.Errorf("%w: at least one participant is required", ErrInvalidInput)
	}
	for i, p := range in.Participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant %d has no id", ErrInvalidInput, i)
		}
		for _, n := range p.Needs {
			if n.Priority.Rank() == 0 {
				return fmt.Errorf("%w: participant %s has unknown need priority %q", ErrInvalidInput, p.ID, n.Priority)
			}
		}
	}
	for i, c := range in.Candidates {
		if c.ID == "" {
			return fmt.Errorf("%w: candidate %d has no id", ErrInvalidInput, i)
		}
		if c.Grade < 0 || c.Grade > 10 {
			return fmt.Errorf("%w: candidate %s grade %v outside [0,10]", ErrInvalidInput, c.ID, c.Grade)
		}
	}
	return nil
}

func (in *Input) assignRanks() {
	for i := range in.Candidates {
		in.Candidates[i].Rank = i + 1
	}
}

var (
	sampleTeams = []string{
		"Harbor City", "Iron Valley", "North Ridge", "Lakeshore",
		"Red Mesa", "Summit", "Pine Barrens", "Gulf Coast",
	}
	sampleCategories = []string{"QB", "RB", "WR", "TE", "OT", "EDGE", "IDL", "LB", "CB", "S"}
	sampleOrigins    = []string{"State", "Tech", "A&M", "Central", "Coastal"}
)

// DefaultInput is a built-in eight team league with a pool large enough for
// settings.Rounds rounds.
func DefaultInput(settings models.DraftSettings) Input {
	participants := make([]models.Participant, len(sampleTeams))
	for i, name := range sampleTeams {
		participants[i] = models.Participant{
			ID:   fmt.Sprintf("team-%d", i+1),
			Name: name,
			Needs: []models.Need{
				{Category: sampleCategories[i%len(sampleCategories)], Priority: models.NeedPriorityHigh},
				{Category: sampleCategories[(i+3)%len(sampleCategories)], Priority: models.NeedPriorityMedium},
				{Category: sampleCategories[(i+7)%len(sampleCategories)], Priority: models.NeedPriorityLow},
			},
		}
	}

	rounds := settings.Rounds
	if rounds <= 0 {
		rounds = 1
	}
	count := len(participants)*rounds + len(participants)*2
	candidates := make([]models.Candidate, count)
	for i := range candidates {
		grade := 9.8 - float64(i)*(7.0/float64(count))
		candidates[i] = models.Candidate{
			ID:       fmt.Sprintf("prospect-%03d", i+1),
			Name:     fmt.Sprintf("Prospect %d", i+1),
			Category: sampleCategories[(i*7)%len(sampleCategories)],
			Grade:    float64(int(grade*10)) / 10,
			Origin:   sampleOrigins[i%len(sampleOrigins)],
			Rank:     i + 1,
		}
	}

	return Input{Settings: settings, Participants: participants, Candidates: candidates}
}
