package app

import (
	"context"

	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// ScreenItem is one rendered quote with its assigned color.
type ScreenItem struct {
	Index int
	Quote domain.Quote
	Color domain.Color
}

// Screen is everything a presenter needs to draw the quote list:
// the sync flags, the colored items and the jump targets.
type Screen struct {
	Phase      domain.Phase
	Loading    bool
	Refreshing bool
	Items      []ScreenItem

	// Targets is nil when there is nothing to scroll to.
	Targets *domain.ScrollTargets
}

// ScrollTo returns the item index behind a jump target.
// An empty screen has no targets and yields domain.ErrNotFound.
func (s Screen) ScrollTo(pos domain.ScrollPosition) (int, error) {
	if s.Targets == nil {
		return 0, domain.NewNotFoundError("scroll target", string(pos))
	}

	return s.Targets.Index(pos), nil
}

// Presenter turns sync state into a Screen.
type Presenter struct {
	picker domain.ColorPicker
}

// NewPresenter creates a presenter. A nil picker uses random colors.
func NewPresenter(picker domain.ColorPicker) *Presenter {
	if picker == nil {
		picker = domain.NewRandomColors(nil)
	}

	return &Presenter{picker: picker}
}

// ColorPickerFor selects the color strategy from the feature flags.
// Random per render is the default.
func ColorPickerFor(ctx context.Context, flags ports.FeatureFlags) domain.ColorPicker {
	if flags != nil && flags.IsEnabled(ctx, ports.FlagStableQuoteColors, false) {
		return domain.StableColors{}
	}

	return domain.NewRandomColors(nil)
}

// Present builds a screen. Every call picks colors afresh, so with the
// random picker two renders of the same state may differ in color only.
func (p *Presenter) Present(state domain.SyncState) Screen {
	quotes := state.Quotes()

	screen := Screen{
		Phase:      state.Phase(),
		Loading:    state.Loading(),
		Refreshing: state.Refreshing(),
		Items:      make([]ScreenItem, len(quotes)),
	}

	for i, q := range quotes {
		screen.Items[i] = ScreenItem{Index: i, Quote: q, Color: p.picker.Pick(i, q)}
	}

	if targets, ok := domain.NewScrollTargets(len(quotes)); ok {
		screen.Targets = &targets
	}

	return screen
}
