package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mergebase/pkg/buildinfo"
	"github.com/matzehuels/mergebase/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mergebase"

	// defaultCacheTTL bounds how long fetched nodes and reports are kept.
	defaultCacheTTL = 7 * 24 * time.Hour

	// keyScope versions every cache key written by the CLI.
	keyScope = "v1:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// RunID identifies one invocation in logs and reports.
	RunID string

	out io.Writer
}

// New creates a new CLI instance with a default logger. Results go to
// stdout; logs go to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		RunID:  uuid.NewString(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command results.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mergebase finds the common ancestors of changesets",
		Long: `Mergebase computes the lowest common ancestor (LCA) of two or more changesets
in a history DAG, together with every significant partial common ancestor (SPCA)
of criss-cross merges, reading history from files, Redis or MongoDB.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.installHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.lcaCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// installHooks routes traversal, store and cache events to the debug log.
func (c *CLI) installHooks() {
	h := &logHooks{logger: c.Logger.With("run", shortRunID(c.RunID))}
	observability.SetTraversalHooks(h)
	observability.SetStoreHooks(h)
	observability.SetCacheHooks(h)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mergebase/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
