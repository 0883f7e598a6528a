// Package terminal draws the quote screen and the failure alert on a
// terminal, and emits the same screen as JSON for scripting.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// Output formats accepted by the CLI.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	loadingLine    = "⣾ Loading quotes..."
	refreshingLine = "↻ Refreshing..."
	emptyTitle     = "No quotes available."
	emptyHint      = "Run `quotefeed refresh` to try again."
	quoteTextColor = lipgloss.Color("#FFFFFF")
	alertColor     = lipgloss.Color("#B22222")
	mutedColor     = lipgloss.Color("#808080")
)

// Option configures a Renderer.
type Option func(*lipgloss.Renderer)

// WithColorProfile forces a color profile instead of detecting one from
// the writer. termenv.Ascii disables styling entirely.
func WithColorProfile(p termenv.Profile) Option {
	return func(r *lipgloss.Renderer) {
		r.SetColorProfile(p)
	}
}

// Renderer writes screens as styled text.
type Renderer struct {
	out io.Writer
	lg  *lipgloss.Renderer

	status lipgloss.Style
	muted  lipgloss.Style
	title  lipgloss.Style
	quote  lipgloss.Style
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	lg := lipgloss.NewRenderer(w)
	for _, opt := range opts {
		opt(lg)
	}

	return &Renderer{
		out:    w,
		lg:     lg,
		status: lg.NewStyle().Bold(true),
		muted:  lg.NewStyle().Foreground(mutedColor),
		title:  lg.NewStyle().Bold(true).Foreground(alertColor),
		quote:  lg.NewStyle().Foreground(quoteTextColor).Padding(0, 1),
	}
}

// Render draws the screen starting at item index start.
// A start past the end renders no items.
func (r *Renderer) Render(screen app.Screen, start int) error {
	var b strings.Builder

	switch {
	case screen.Loading:
		b.WriteString(r.status.Render(loadingLine))
		b.WriteString("\n")

	case screen.Phase == domain.PhaseEmpty:
		if screen.Refreshing {
			b.WriteString(r.status.Render(refreshingLine))
			b.WriteString("\n")
		}
		b.WriteString(r.status.Render(emptyTitle))
		b.WriteString("\n")
		b.WriteString(r.muted.Render(emptyHint))
		b.WriteString("\n")

	default:
		if screen.Refreshing {
			b.WriteString(r.status.Render(refreshingLine))
			b.WriteString("\n\n")
		}

		for _, item := range screen.Items[min(max(start, 0), len(screen.Items)):] {
			b.WriteString(r.renderQuote(item))
			b.WriteString("\n\n")
		}

		if screen.Targets != nil {
			b.WriteString(r.muted.Render(fmt.Sprintf(
				"%d quotes · jump: first #%d · middle #%d · last #%d",
				len(screen.Items), screen.Targets.First+1, screen.Targets.Middle+1, screen.Targets.Last+1)))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(r.out, b.String())

	return err
}

func (r *Renderer) renderQuote(item app.ScreenItem) string {
	body := fmt.Sprintf("%q\n- %s", item.Quote.Text, item.Quote.Author)

	return r.quote.Background(lipgloss.Color(string(item.Color))).Render(body)
}

// RenderAlert draws the user-facing failure alert.
func (r *Renderer) RenderAlert(alert domain.Alert) error {
	_, err := fmt.Fprintf(r.out, "%s\n%s\n", r.title.Render(alert.Title), alert.Message)

	return err
}
