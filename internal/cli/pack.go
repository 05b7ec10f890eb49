package cli

import (
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/pipeline"
	"github.com/driftwall/driftwall/pkg/wall"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	output  string      // output layout file path
	geo     wall.Config // world geometry overrides
	noCache bool        // disable the layout cache
	refresh bool        // recompute even on a cache hit
}

// packCommand creates the pack command. It reads an image manifest,
// packs it into a world tile, and writes the layout document.
func (c *CLI) packCommand() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack <manifest>",
		Short: "Pack an image manifest into a wall layout",
		Long: `Pack reads an image manifest (JSON or TOML), packs the images into
justified rows filling one world tile, and writes the resulting layout
document as JSON. The layout is deterministic: the same manifest and
geometry always produce the same file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <manifest>.layout.json)")
	geometryFlags(cmd, &opts.geo)
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runPack(cmd *cobra.Command, input string, opts *packOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)

	m, err := runner.LoadManifest(pipeline.Options{ManifestPath: input})
	if err != nil {
		return err
	}

	doc, hit, err := runner.BuildLayoutWithCacheInfo(cmd.Context(), m, pipeline.Options{
		ManifestPath: input,
		Geometry:     opts.geo,
		Refresh:      opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done("Packed %d placements", len(doc.Images))

	out := outputPath(opts.output, input, "layout.json")
	if err := wall.WriteDocumentFile(doc, out); err != nil {
		return err
	}

	printSuccess("Packed %s", input)
	printStats(len(doc.Images), doc.Rows(), hit)
	printFile(out)
	return nil
}
