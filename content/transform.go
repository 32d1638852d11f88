package content

import (
	"math"
	"strconv"
	"strings"
)

// PlaceholderGradient is the background used when a banner has no image.
const PlaceholderGradient = "linear-gradient(135deg, #1e3a8a 0%, #2563eb 50%, #60a5fa 100%)"

// Cover holds the background parameters of a full-bleed banner image.
type Cover struct {
	Size     string // background-size, e.g. "120%"
	Position string // background-position, e.g. "50% 50%"
	Repeat   string // always "no-repeat"
}

// Frame holds the parameters of an image shown inside a fixed box.
type Frame struct {
	ObjectPosition string // object-position, e.g. "50% 50%"
	Transform      string // transform, e.g. "scale(1.2)"
}

// CoverFill computes the banner parameters for pos. Out of range input is
// clamped first.
func CoverFill(pos ImagePosition) Cover {
	p := pos.Clamp()
	return Cover{
		Size:     formatNumber(p.Scale*100) + "%",
		Position: percentPair(p),
		Repeat:   "no-repeat",
	}
}

// ObjectFit computes the framed-image parameters for pos. Out of range input
// is clamped first.
func ObjectFit(pos ImagePosition) Frame {
	p := pos.Clamp()
	return Frame{
		ObjectPosition: percentPair(p),
		Transform:      "scale(" + formatNumber(p.Scale) + ")",
	}
}

// Style renders the cover as inline CSS for a banner showing image. Callers
// with no image use PlaceholderGradient instead.
func (c Cover) Style(image string) string {
	var b strings.Builder
	b.WriteString("background-image: url('")
	b.WriteString(cssEscape(image))
	b.WriteString("'); background-size: ")
	b.WriteString(c.Size)
	b.WriteString("; background-position: ")
	b.WriteString(c.Position)
	b.WriteString("; background-repeat: ")
	b.WriteString(c.Repeat)
	b.WriteString(";")
	return b.String()
}

// Style renders the frame as inline CSS for an <img> element.
func (f Frame) Style() string {
	return "object-fit: cover; object-position: " + f.ObjectPosition + "; transform: " + f.Transform + ";"
}

func percentPair(p ImagePosition) string {
	return formatNumber(p.X) + "% " + formatNumber(p.Y) + "%"
}

// formatNumber prints v in its shortest decimal form after rounding to four
// places, so float noise such as 110.00000000000001 prints as 110.
func formatNumber(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// cssEscape keeps an image reference from terminating the url('...') token.
func cssEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", "", "\r", "").Replace(s)
}
