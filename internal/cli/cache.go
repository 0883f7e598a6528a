package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotefeed/internal/adapters/terminal"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// updatedAtReader is implemented by cache stores that track write times.
type updatedAtReader interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// CacheView is the JSON form of the cache slot.
type CacheView struct {
	Key       string        `json:"key"`
	Status    string        `json:"status"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
	Count     int           `json:"count"`
	Error     string        `json:"error,omitempty"`
	Quotes    []CachedQuote `json:"quotes"`
}

// CachedQuote is one entry of the cache slot.
type CachedQuote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local quote cache",
	}

	cmd.AddCommand(newCacheShowCommand(opts))
	cmd.AddCommand(newCacheClearCommand(opts))

	return cmd
}

func newCacheShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the cached quote list without fetching",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheShow(cmd, opts)
		},
	}
}

func newCacheClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached quote list",
		Long: `Remove the cached quote list. The next show starts with an empty
screen until the fetch completes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(cmd, opts)
		},
	}
}

func runCacheShow(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()

	svc, err := newServices(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "startup failed", err)
	}
	defer svc.close(context.WithoutCancel(ctx))

	res := svc.store.Read(ctx)

	view := CacheView{
		Key:    svc.store.Key(),
		Status: res.Status.String(),
		Count:  len(res.Quotes),
		Quotes: make([]CachedQuote, len(res.Quotes)),
	}

	for i, q := range res.Quotes {
		view.Quotes[i] = CachedQuote{Text: q.Text, Author: q.Author}
	}

	if res.Err != nil {
		view.Error = res.Err.Error()
	}

	if r, ok := svc.cache.(updatedAtReader); ok && res.Found() {
		if at, err := r.UpdatedAt(ctx, svc.store.Key()); err == nil {
			view.UpdatedAt = &at
		}
	}

	out := cmd.OutOrStdout()

	if opts.Format == terminal.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(view)
	} else {
		err = writeCacheText(out, view)
		if err == nil && res.Found() {
			presenter := app.NewPresenter(app.ColorPickerFor(ctx, svc.flags))
			screen := presenter.Present(domain.NewSyncState().WithFetched(res.Quotes))
			err = newRenderer(out, opts.NoColor).Render(screen, 0)
		}
	}

	if err != nil {
		return WrapExitError(ExitCommandError, "writing output", err)
	}

	if res.Status == domain.CacheFailed {
		return NewExitError(ExitFailure, "")
	}

	return nil
}

func writeCacheText(w io.Writer, v CacheView) error {
	if _, err := fmt.Fprintf(w, "key:     %s\nstatus:  %s\n", v.Key, v.Status); err != nil {
		return err
	}

	if v.UpdatedAt != nil {
		if _, err := fmt.Fprintf(w, "updated: %s\n", v.UpdatedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}

	if v.Error != "" {
		if _, err := fmt.Fprintf(w, "error:   %s\n", v.Error); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "count:   %d\n\n", v.Count)

	return err
}

func runCacheClear(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()

	svc, err := newServices(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "startup failed", err)
	}
	defer svc.close(context.WithoutCancel(ctx))

	if err := svc.store.Clear(ctx); err != nil {
		return WrapExitError(ExitFailure, "clearing cache", err)
	}

	out := cmd.OutOrStdout()

	if opts.Format == terminal.FormatJSON {
		err = json.NewEncoder(out).Encode(map[string]any{"key": svc.store.Key(), "cleared": true})
	} else {
		_, err = fmt.Fprintf(out, "cleared cache entry %q\n", svc.store.Key())
	}

	if err != nil {
		return WrapExitError(ExitCommandError, "writing output", err)
	}

	return nil
}
