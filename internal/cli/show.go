package cli

import (
	"context"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotefeed/internal/adapters/terminal"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// eventBuffer covers every event a single command run can publish.
const eventBuffer = 16

// FeedOptions holds flags for the show and refresh commands.
type FeedOptions struct {
	*RootOptions
	Jump         string
	StableColors bool
	Progressive  bool
}

// syncFunc runs one sync against the synchronizer.
type syncFunc func(ctx context.Context, s *app.QuoteSynchronizer) error

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the quote list",
		Long: `Show the cached quote list, fetch a fresh batch and show the result.

On failure the cached list, if any, stays on screen and an alert is printed.
The command then exits with status 1.

Example:
  quotefeed show
  quotefeed show --jump middle --stable-colors
  quotefeed show --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts, func(ctx context.Context, s *app.QuoteSynchronizer) error {
				return s.Initialize(ctx)
			})
		},
	}

	addFeedFlags(cmd, opts)

	return cmd
}

// NewRefreshCommand creates the refresh command.
func NewRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Pull to refresh: fetch a fresh batch of quotes",
		Long: `Load the cached list, then run a user-initiated refresh.

The refreshing indicator is shown while the fetch is in flight when
--progressive is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts, func(ctx context.Context, s *app.QuoteSynchronizer) error {
				s.LoadCached(ctx)
				return s.Refresh(ctx)
			})
		},
	}

	addFeedFlags(cmd, opts)

	return cmd
}

func addFeedFlags(cmd *cobra.Command, opts *FeedOptions) {
	cmd.Flags().StringVar(&opts.Jump, "jump", "", "start the list at a scroll target (first|middle|last)")
	cmd.Flags().BoolVar(&opts.StableColors, "stable-colors", false, "derive quote colors from the quote text")
	cmd.Flags().BoolVar(&opts.Progressive, "progressive", false, "print every intermediate screen (text format only)")
}

func runFeed(cmd *cobra.Command, opts *FeedOptions, sync syncFunc) error {
	var jump domain.ScrollPosition
	if opts.Jump != "" {
		pos, err := domain.ParseScrollPosition(opts.Jump)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --jump", err)
		}
		jump = pos
	}

	ctx := cmd.Context()

	svc, err := newServices(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "startup failed", err)
	}
	defer svc.close(context.WithoutCancel(ctx))

	ff := svc.flags
	if opts.StableColors {
		ff = ff.With(ports.FlagStableQuoteColors, "true")
	}
	if opts.Progressive {
		ff = ff.With(ports.FlagProgressiveRender, "true")
	}

	sw := &screenWriter{
		out:       cmd.OutOrStdout(),
		format:    opts.Format,
		presenter: app.NewPresenter(app.ColorPickerFor(ctx, ff)),
		renderer:  newRenderer(cmd.OutOrStdout(), opts.NoColor),
		jump:      jump,
	}
	progressive := opts.Format == terminal.FormatText && ff.IsEnabled(ctx, ports.FlagProgressiveRender, false)

	types := []string{app.EventFetchFailed}
	if progressive {
		types = append(types, app.EventStateChanged)
	}
	events, unsubscribe := svc.bus.Subscribe(eventBuffer, types...)

	var (
		alert     *domain.Alert
		renderErr error
		done      = make(chan struct{})
	)

	if progressive {
		renderErr = sw.render(svc.syncer.State())
	}

	go func() {
		defer close(done)

		for ev := range events {
			switch e := ev.(type) {
			case app.FetchFailedEvent:
				a := e.Alert
				alert = &a
			case app.StateChangedEvent:
				if err := sw.render(e.State); err != nil && renderErr == nil {
					renderErr = err
				}
			}
		}
	}()

	syncErr := sync(ctx, svc.syncer)

	unsubscribe()
	<-done

	if alert == nil && domain.IsFetchFailed(syncErr) {
		alert = &domain.FetchFailedAlert
	}

	if !progressive {
		renderErr = sw.write(svc.syncer.State(), alert)
	} else if alert != nil && renderErr == nil {
		renderErr = sw.renderer.RenderAlert(*alert)
	}

	if renderErr != nil {
		return WrapExitError(ExitCommandError, "writing output", renderErr)
	}

	if syncErr != nil {
		if alert != nil {
			return NewExitError(ExitFailure, "")
		}
		return WrapExitError(ExitFailure, "sync failed", syncErr)
	}

	return nil
}

func newRenderer(w io.Writer, noColor bool) *terminal.Renderer {
	if noColor {
		return terminal.NewRenderer(w, terminal.WithColorProfile(termenv.Ascii))
	}
	return terminal.NewRenderer(w)
}

// screenWriter presents sync states and writes them in the chosen format.
type screenWriter struct {
	out       io.Writer
	format    string
	presenter *app.Presenter
	renderer  *terminal.Renderer
	jump      domain.ScrollPosition
}

// start resolves the jump target. A jump on an empty list starts at 0.
func (w *screenWriter) start(screen app.Screen) int {
	if w.jump == "" {
		return 0
	}

	idx, err := screen.ScrollTo(w.jump)
	if err != nil {
		return 0
	}

	return idx
}

// render draws one intermediate text screen.
func (w *screenWriter) render(state domain.SyncState) error {
	screen := w.presenter.Present(state)
	return w.renderer.Render(screen, w.start(screen))
}

// write emits the settled screen and the alert, if any.
func (w *screenWriter) write(state domain.SyncState, alert *domain.Alert) error {
	screen := w.presenter.Present(state)
	start := w.start(screen)

	if w.format == terminal.FormatJSON {
		return terminal.WriteJSON(w.out, terminal.NewView(screen, start, alert))
	}

	if err := w.renderer.Render(screen, start); err != nil {
		return err
	}

	if alert != nil {
		return w.renderer.RenderAlert(*alert)
	}

	return nil
}
