package ports

import (
	"context"
)

// Flag names read by the quote feed.
const (
	// FlagStableQuoteColors switches quote coloring from random-per-render
	// to a color derived from the quote content.
	FlagStableQuoteColors = "stable-quote-colors"

	// FlagProgressiveRender makes the CLI print every intermediate state
	// instead of only the settled one.
	FlagProgressiveRender = "progressive-render"
)

// FeatureFlags defines the contract for feature flag evaluation.
// This port lets the application check feature enablement without
// knowing where the flags come from.
//
// Design principles:
//   - Always provide default values for graceful degradation
//   - Synchronous evaluation (flag reloads happen in the adapter)
//
// Example usage:
//
//	if flags.IsEnabled(ctx, ports.FlagStableQuoteColors, false) {
//	    picker = domain.StableColors{}
//	}
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag doesn't exist or cannot be parsed.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// GetString retrieves a string feature flag value.
	// Returns defaultValue if the flag doesn't exist.
	GetString(ctx context.Context, flag string, defaultValue string) string
}
