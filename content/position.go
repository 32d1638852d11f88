// Package content defines the entities edited through the admin dashboard,
// their defaulting rules, the typed field updates that mutate them, and the
// image transform shared by the editor preview and the public pages.
package content

import "encoding/json"

// Position bounds. X and Y are percentages of the image box; Scale 1.0 is
// the natural size.
const (
	MinPercent = 0.0
	MaxPercent = 100.0
	MinScale   = 0.5
	MaxScale   = 2.0
)

// ImagePosition is the crop/zoom record stored alongside an image.
type ImagePosition struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// DefaultPosition returns the centered, unscaled position.
func DefaultPosition() ImagePosition {
	return ImagePosition{X: 50, Y: 50, Scale: 1}
}

// IsZero reports whether p is the zero value. A stored position is always
// clamped, so its scale is never zero; the zero value therefore means the
// record carried no position at all.
func (p ImagePosition) IsZero() bool {
	return p == ImagePosition{}
}

// Clamp returns p with every component forced into range.
func (p ImagePosition) Clamp() ImagePosition {
	return ImagePosition{
		X:     clamp(p.X, MinPercent, MaxPercent),
		Y:     clamp(p.Y, MinPercent, MaxPercent),
		Scale: clamp(p.Scale, MinScale, MaxScale),
	}
}

// normalized returns the default for an absent position and a clamped copy
// otherwise.
func (p ImagePosition) normalized() ImagePosition {
	if p.IsZero() {
		return DefaultPosition()
	}
	return p.Clamp()
}

// UnmarshalJSON fills components missing from the record with the default
// and clamps the rest.
func (p *ImagePosition) UnmarshalJSON(b []byte) error {
	type plain ImagePosition
	v := plain(DefaultPosition())
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = ImagePosition(v).Clamp()
	return nil
}

func clamp(v, lo, hi float64) float64 {
	// NaN compares false against everything; treat it as the lower bound.
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
