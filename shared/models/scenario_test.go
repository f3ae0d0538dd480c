package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeChoices(t *testing.T) {
	t.Run("Deduplicates by ID keeping first occurrence", func(t *testing.T) {
		choices := []Choice{
			{ID: 5, Text: "first five"},
			{ID: 3, Text: "three"},
			{ID: 5, Text: "second five"},
		}

		got := NormalizeChoices(choices)

		assert.Len(t, got, 2)
		assert.Equal(t, int64(3), got[0].ID)
		assert.Equal(t, int64(5), got[1].ID)
		assert.Equal(t, "first five", got[1].Text)
	})

	t.Run("Sorts ascending by ID", func(t *testing.T) {
		choices := []Choice{{ID: 9}, {ID: 1}, {ID: 4}}

		got := NormalizeChoices(choices)

		assert.Equal(t, []int64{1, 4, 9}, []int64{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("Empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, NormalizeChoices(nil))
	})
}

func TestFindChoice(t *testing.T) {
	scenario := &Scenario{
		ID: 1,
		Choices: []Choice{
			{ID: 10, MoralImpact: 15},
			{ID: 11, MoralImpact: -10},
		},
	}

	t.Run("Returns the matching choice", func(t *testing.T) {
		choice := scenario.FindChoice(11)
		assert.NotNil(t, choice)
		assert.Equal(t, -10, choice.MoralImpact)
	})

	t.Run("Returns nil for unknown ID", func(t *testing.T) {
		assert.Nil(t, scenario.FindChoice(99))
	})
}
