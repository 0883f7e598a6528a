package dto

import (
	"time"

	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// QuoteResponse is one quote as rendered on screen.
type QuoteResponse struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Color  string `json:"color"`
}

// QuotesResponse is the full screen: sync flags, colored quotes and jump targets.
type QuotesResponse struct {
	Phase      string                `json:"phase"`
	Loading    bool                  `json:"loading"`
	Refreshing bool                  `json:"refreshing"`
	Start      int                   `json:"start"`
	Quotes     []QuoteResponse       `json:"quotes"`
	Scroll     *domain.ScrollTargets `json:"scroll,omitempty"`
}

// NewQuotesResponse converts a screen, starting the view at index start.
func NewQuotesResponse(screen app.Screen, start int) QuotesResponse {
	resp := QuotesResponse{
		Phase:      screen.Phase.String(),
		Loading:    screen.Loading,
		Refreshing: screen.Refreshing,
		Start:      start,
		Quotes:     make([]QuoteResponse, len(screen.Items)),
		Scroll:     screen.Targets,
	}

	for i, item := range screen.Items {
		resp.Quotes[i] = QuoteResponse{
			Index:  item.Index,
			Text:   item.Quote.Text,
			Author: item.Quote.Author,
			Color:  string(item.Color),
		}
	}

	return resp
}

// RefreshResponse is returned by a pull-to-refresh. Superseded is set
// when a newer sync overtook this one and the body shows its state instead.
type RefreshResponse struct {
	QuotesResponse

	Superseded bool      `json:"superseded,omitempty"`
	Duration   string    `json:"duration"`
	FinishedAt time.Time `json:"finishedAt"`
}

// ScrollResponse names the quote behind a jump target.
type ScrollResponse struct {
	Position string        `json:"position"`
	Index    int           `json:"index"`
	Quote    QuoteResponse `json:"quote"`
}

// QuotesRequest holds the optional jump target for GET /quotes.
type QuotesRequest struct {
	Jump string `form:"jump" validate:"omitempty,oneof=first middle last"`
}

// ScrollRequest holds the jump target path parameter.
type ScrollRequest struct {
	Position string `uri:"position" validate:"required,oneof=first middle last"`
}
