package ports

import (
	"context"

	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// QuoteFeed is the driving port presenters use: read the current sync
// state and trigger a pull-to-refresh.
// app.QuoteSynchronizer implements it.
type QuoteFeed interface {
	// State returns the current immutable snapshot.
	State() domain.SyncState

	// Refresh runs one remote sync with the refreshing flag raised.
	// Returns a domain.ErrFetchFailed error when the sync failed and
	// domain.ErrSuperseded when a newer sync overtook it.
	Refresh(ctx context.Context) error
}
