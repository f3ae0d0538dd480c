package models

import "sort"

// Sin is the thematic category attached to a scenario (name plus the color
// the map uses for its location).
type Sin struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Color string `db:"color" json:"color"`
}

// Choice is a selectable option within a scenario. MoralImpact is the signed
// delta applied to the moral score when the choice is confirmed.
type Choice struct {
	ID          int64  `db:"id" json:"id"`
	ScenarioID  int64  `db:"scenario_id" json:"scenarioId"`
	Text        string `db:"text" json:"text"`
	Consequence string `db:"consequence" json:"consequence"`
	MoralImpact int    `db:"moral_impact" json:"moralImpact"`
}

// Scenario is one moral dilemma of the village. Scenarios are immutable
// reference data; clients never mutate them.
type Scenario struct {
	ID          int64    `db:"id" json:"id"`
	Title       string   `db:"title" json:"title"`
	Description string   `db:"description" json:"description"`
	SinID       int64    `db:"sin_id" json:"sinId"`
	SinName     string   `db:"sin_name" json:"sinName,omitempty"`
	SinColor    string   `db:"sin_color" json:"sinColor,omitempty"`
	Choices     []Choice `db:"-" json:"choices,omitempty"`
}

// NormalizeChoices deduplicates choices by ID, keeping the first occurrence
// of each ID, and returns them sorted ascending by ID. The backing table has
// been observed to return duplicate rows, so every scenario read passes
// through here.
func NormalizeChoices(choices []Choice) []Choice {
	seen := make(map[int64]struct{}, len(choices))
	unique := make([]Choice, 0, len(choices))
	for _, ch := range choices {
		if _, ok := seen[ch.ID]; ok {
			continue
		}
		seen[ch.ID] = struct{}{}
		unique = append(unique, ch)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].ID < unique[j].ID })
	return unique
}

// FindChoice returns the choice with the given ID, or nil.
func (s *Scenario) FindChoice(choiceID int64) *Choice {
	for i := range s.Choices {
		if s.Choices[i].ID == choiceID {
			return &s.Choices[i]
		}
	}
	return nil
}
