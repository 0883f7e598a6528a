package domain

import (
	"hash/fnv"
	"math/rand/v2"
)

// Alert is the static message shown to the user when a sync fails.
type Alert struct {
	Title   string
	Message string
}

// FetchFailedAlert carries no error detail on purpose; the cause is only logged.
var FetchFailedAlert = Alert{
	Title:   "Error",
	Message: "Failed to load quotes. Please try again.",
}

// Color is a hex RGB color, e.g. "#FF6347".
type Color string

// palette holds high-contrast colors that read well behind white text.
var palette = [...]Color{
	"#FF6347", // tomato
	"#FF4500", // orange red
	"#D2691E", // chocolate
	"#8B0000", // dark red
	"#B22222", // firebrick
	"#32CD32", // lime green
	"#008B8B", // dark cyan
	"#A52A2A", // brown
	"#800080", // purple
	"#FF1493", // deep pink
}

// Palette returns a copy of the quote color palette.
func Palette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette[:])

	return out
}

// ColorPicker assigns a display color to a rendered quote.
type ColorPicker interface {
	Pick(index int, q Quote) Color
}

// RandomColors picks a palette color uniformly at random on every call,
// so a quote may change color between renders.
type RandomColors struct {
	intN func(n int) int
}

// NewRandomColors creates a random picker. A nil source uses the global generator.
func NewRandomColors(src *rand.Rand) *RandomColors {
	if src == nil {
		return &RandomColors{intN: rand.IntN} //nolint:gosec // Cosmetic randomness
	}

	return &RandomColors{intN: src.IntN}
}

// Pick implements ColorPicker.
func (p *RandomColors) Pick(_ int, _ Quote) Color {
	return palette[p.intN(len(palette))]
}

// StableColors derives the color from the quote content, so it survives re-renders.
type StableColors struct{}

// Pick implements ColorPicker.
func (StableColors) Pick(_ int, q Quote) Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(q.Text))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(q.Author))

	return palette[h.Sum32()%uint32(len(palette))]
}

// ScrollPosition names one of the jump targets.
type ScrollPosition string

// Jump targets offered to the user.
const (
	ScrollFirst  ScrollPosition = "first"
	ScrollMiddle ScrollPosition = "middle"
	ScrollLast   ScrollPosition = "last"
)

// ParseScrollPosition validates a jump target name.
func ParseScrollPosition(s string) (ScrollPosition, error) {
	switch p := ScrollPosition(s); p {
	case ScrollFirst, ScrollMiddle, ScrollLast:
		return p, nil
	default:
		return "", NewValidationErrorWithValue("position", "must be one of: first middle last", s)
	}
}

// ScrollTargets holds the list indexes behind the jump buttons.
type ScrollTargets struct {
	First  int `json:"first"`
	Middle int `json:"middle"`
	Last   int `json:"last"`
}

// NewScrollTargets computes jump targets for a list of the given length.
// It reports false for an empty list, which has nothing to scroll to.
func NewScrollTargets(length int) (ScrollTargets, bool) {
	if length <= 0 {
		return ScrollTargets{}, false
	}

	return ScrollTargets{
		First:  0,
		Middle: length / 2,
		Last:   length - 1,
	}, true
}

// Index returns the list index for a jump target.
func (t ScrollTargets) Index(p ScrollPosition) int {
	switch p {
	case ScrollMiddle:
		return t.Middle
	case ScrollLast:
		return t.Last
	default:
		return t.First
	}
}
