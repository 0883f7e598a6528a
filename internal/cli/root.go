// Package cli implements the quotefeed command line: the terminal quote
// screen, pull-to-refresh, cache maintenance and the HTTP service.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotefeed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefeed/internal/adapters/terminal"
	"github.com/jsamuelsen/quotefeed/internal/platform/config"
)

// ProfileEnv selects the config profile when --profile is not given.
const ProfileEnv = config.EnvPrefix + "PROFILE"

// DefaultProfile is the config profile used when neither --profile nor
// ProfileEnv is set.
const DefaultProfile = "local"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	Profile   string
	Format    string // "json" | "text"
	Verbose   bool
	NoColor   bool

	Build handlers.BuildInfo
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{terminal.FormatText, terminal.FormatJSON}

// NewRootCommand creates the root command for the quotefeed CLI.
func NewRootCommand(build handlers.BuildInfo) *cobra.Command {
	opts := &RootOptions{Build: build}

	cmd := &cobra.Command{
		Use:   "quotefeed",
		Short: "Inspirational quotes, cached locally and refreshed on demand",
		Long: `quotefeed fetches a batch of quotes from a remote quote API, keeps the
last successful batch in a local cache, and shows it on the terminal or over
HTTP. The cached list is shown immediately while a fresh batch is fetched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", config.DefaultDir, "directory holding base.yaml and profile files")
	cmd.PersistentFlags().StringVarP(&opts.Profile, "profile", "p", defaultProfile(), "config profile (env "+ProfileEnv+")")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", terminal.FormatText, "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewRefreshCommand(opts))
	cmd.AddCommand(NewCacheCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if opts.Format == terminal.FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(opts.Build)
			}

			_, err := fmt.Fprintf(out, "quotefeed %s (commit %s, built %s, %s)\n",
				opts.Build.Version, opts.Build.Commit, opts.Build.BuildTime, opts.Build.GoVersion)
			return err
		},
	}
}

func defaultProfile() string {
	if p := os.Getenv(ProfileEnv); p != "" {
		return p
	}
	return DefaultProfile
}
