package models

// MoralBand partitions the final moral score into the three ending keys.
type MoralBand string

const (
	BandVirtuous MoralBand = "virtuous"
	BandNeutral  MoralBand = "neutral"
	BandCorrupt  MoralBand = "corrupt"
)

// BandForScore maps a final moral score to its ending band. Pure function:
// score > 50 is virtuous, score < -50 is corrupt, everything else neutral.
func BandForScore(score int) MoralBand {
	switch {
	case score > 50:
		return BandVirtuous
	case score < -50:
		return BandCorrupt
	default:
		return BandNeutral
	}
}

// BandForImpact classifies a single choice by the sign of its moral impact,
// the same way the profile counters do: positive virtuous, negative corrupt,
// zero neutral.
func BandForImpact(impact int) MoralBand {
	switch {
	case impact > 0:
		return BandVirtuous
	case impact < 0:
		return BandCorrupt
	default:
		return BandNeutral
	}
}

// Ending is the personalized epilogue selected by the final moral band.
type Ending struct {
	ID          int64     `db:"id" json:"id"`
	MoralBand   MoralBand `db:"moral_range" json:"moralBand"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	// IsDefault marks the built-in fallback used when the endings table has
	// no row for the band.
	IsDefault bool `db:"-" json:"isDefault,omitempty"`
}

// DefaultEnding returns the built-in ending for a band. Used as a fallback
// so a missing remote record never fails the read.
func DefaultEnding(band MoralBand) Ending {
	e := Ending{MoralBand: band, IsDefault: true}
	switch band {
	case BandVirtuous:
		e.Title = "The Light of the Village"
		e.Description = "Your choices lifted the village out of its shadows. The seven houses stand open, and your name is spoken with gratitude."
	case BandCorrupt:
		e.Title = "The Seventh Shadow"
		e.Description = "One by one the lights went out behind you. The village keeps your secrets now, and you keep its."
	default:
		e.Title = "The Quiet Road"
		e.Description = "You leave the village much as you found it. Some doors you opened, some you let stay closed."
	}
	return e
}
