// Package cli implements the driftwall command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/buildinfo"
	"github.com/driftwall/driftwall/pkg/cache"
	"github.com/driftwall/driftwall/pkg/pipeline"
	"github.com/driftwall/driftwall/pkg/render"
	"github.com/driftwall/driftwall/pkg/wall"
)

// appName is the application name used for directories and display.
const appName = "driftwall"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "driftwall",
		Short:        "Driftwall packs image walls and answers pan queries",
		Long:         `Driftwall packs an image set into a seamless, endlessly repeating wall of justified rows and answers visibility queries for any pan position over it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.packCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.panCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/driftwall/).
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

// geometryFlags binds the shared geometry flags onto a command.
func geometryFlags(cmd *cobra.Command, cfg *wall.Config) {
	cmd.Flags().Float64Var(&cfg.WorldSize, "world", wall.DefaultWorldSize, "world tile edge length")
	cmd.Flags().Float64Var(&cfg.TargetRowHeight, "row-height", wall.DefaultTargetRowHeight, "target row height before justification")
	cmd.Flags().Float64Var(&cfg.Gap, "gap", wall.DefaultGap, "gap between images and rows")
	cmd.Flags().Float64Var(&cfg.CellSize, "cell", wall.DefaultCellSize, "spatial index cell size")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatJSON}
	}
	return strings.Split(s, ",")
}

// outputPath derives the output file path from the --output flag, the
// input file, and the format extension.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + ext
}
