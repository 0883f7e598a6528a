// Package main is the entry point for the quotefeed CLI and service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jsamuelsen/quotefeed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefeed/internal/cli"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	root := cli.NewRootCommand(handlers.NewBuildInfo(Version, Commit, BuildTime))

	if err := root.ExecuteContext(context.Background()); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
