package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandForScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  MoralBand
	}{
		{"Far above threshold", 100, BandVirtuous},
		{"Just above threshold", 51, BandVirtuous},
		{"Exactly at upper threshold is neutral", 50, BandNeutral},
		{"Zero", 0, BandNeutral},
		{"Exactly at lower threshold is neutral", -50, BandNeutral},
		{"Just below threshold", -51, BandCorrupt},
		{"Far below threshold", -100, BandCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BandForScore(tt.score))
		})
	}
}

func TestBandForImpact(t *testing.T) {
	tests := []struct {
		name   string
		impact int
		want   MoralBand
	}{
		{"Positive impact is virtuous", 15, BandVirtuous},
		{"Small positive impact is virtuous", 1, BandVirtuous},
		{"Zero impact is neutral", 0, BandNeutral},
		{"Small negative impact is corrupt", -1, BandCorrupt},
		{"Negative impact is corrupt", -35, BandCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BandForImpact(tt.impact))
		})
	}
}

func TestDefaultEnding(t *testing.T) {
	for _, band := range []MoralBand{BandVirtuous, BandNeutral, BandCorrupt} {
		e := DefaultEnding(band)
		assert.Equal(t, band, e.MoralBand)
		assert.True(t, e.IsDefault)
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Description)
	}
}
