package terminal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// View is the JSON form of a screen.
type View struct {
	Phase      string                `json:"phase"`
	Loading    bool                  `json:"loading"`
	Refreshing bool                  `json:"refreshing"`
	Start      int                   `json:"start"`
	Quotes     []QuoteView           `json:"quotes"`
	Scroll     *domain.ScrollTargets `json:"scroll,omitempty"`
	Alert      *AlertView            `json:"alert,omitempty"`
}

// QuoteView is one colored quote.
type QuoteView struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Color  string `json:"color"`
}

// AlertView carries the failure alert when the sync failed.
type AlertView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewView converts a screen. alert may be nil.
func NewView(screen app.Screen, start int, alert *domain.Alert) View {
	v := View{
		Phase:      screen.Phase.String(),
		Loading:    screen.Loading,
		Refreshing: screen.Refreshing,
		Start:      start,
		Quotes:     make([]QuoteView, len(screen.Items)),
		Scroll:     screen.Targets,
	}

	for i, item := range screen.Items {
		v.Quotes[i] = QuoteView{
			Index:  item.Index,
			Text:   item.Quote.Text,
			Author: item.Quote.Author,
			Color:  string(item.Color),
		}
	}

	if alert != nil {
		v.Alert = &AlertView{Title: alert.Title, Message: alert.Message}
	}

	return v
}

// WriteJSON writes the view as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v View) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding view: %w", err)
	}

	_, err = w.Write(append(data, '\n'))

	return err
}
