package models

// Progress is the latest upload progress shown to the user. It has no
// identity: each value replaces the previous one.
type Progress struct {
	// Fraction is in [0.0, 1.0].
	Fraction float64
	// Status is an optional human-readable line; empty keeps the current one.
	Status string
}

// Clamp returns p with Fraction forced into [0, 1].
func (p Progress) Clamp() Progress {
	switch {
	case p.Fraction < 0:
		p.Fraction = 0
	case p.Fraction > 1:
		p.Fraction = 1
	}
	return p
}
