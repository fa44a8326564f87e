package tagfamily

// Match is the result of matching an observed code against a family.
type Match struct {
	// ID is the identity of the best matching code.
	ID int `json:"id"`

	// Hamming is the number of bits by which the observation differs from the code.
	Hamming int `json:"hamming"`

	// Rotation is the number of 90° clockwise turns applied to the observed
	// grid to bring it into the family's canonical orientation.
	Rotation int `json:"rotation"`

	// Code is the family code for ID.
	Code uint64 `json:"code"`
}

// EffectiveMaxHamming clamps a requested error budget to what the family can
// correct without ambiguity. Negative requests are treated as zero.
func (f *Family) EffectiveMaxHamming(requested int) int {
	if requested < 0 {
		return 0
	}
	if limit := f.MaxCorrection(); requested > limit {
		return limit
	}
	return requested
}

// Match finds the family code closest to any of the four observed rotations.
//
// rotations[k] must be the observed grid rotated k×90° clockwise (see
// Rotations). The best match is accepted when its distance is no greater
// than EffectiveMaxHamming(maxHamming) and no other identity reaches the same
// distance. Rejections return false.
func (f *Family) Match(rotations [4]uint64, maxHamming int) (Match, bool) {
	limit := f.EffectiveMaxHamming(maxHamming)

	best := Match{ID: -1, Hamming: f.Bits() + 1}
	tied := false
	for id, code := range f.codes {
		for rot := 0; rot < 4; rot++ {
			d := Hamming(rotations[rot], code)
			switch {
			case d < best.Hamming:
				tied = false
				best = Match{ID: id, Hamming: d, Rotation: rot, Code: code}
			case d == best.Hamming && id != best.ID:
				tied = true
			}
		}
	}

	if best.ID < 0 || best.Hamming > limit || tied {
		return Match{}, false
	}
	return best, true
}

// Nearest returns the minimum distance between any rotation of code and any
// code of the family, without applying acceptance rules.
func (f *Family) Nearest(code uint64) (id, distance int) {
	rs := f.Rotations(code)
	id, distance = -1, f.Bits()+1
	for i, c := range f.codes {
		for _, r := range rs {
			if d := Hamming(r, c); d < distance {
				id, distance = i, d
			}
		}
	}
	return id, distance
}
