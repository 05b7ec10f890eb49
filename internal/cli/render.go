package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/render"
	"github.com/driftwall/driftwall/pkg/wall"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (or base path for multiple formats)
	formats []string // output formats: "svg", "json"
	labels  bool     // draw image ids on SVG rects
}

// renderCommand creates the render command for generating preview
// artifacts from a packed layout.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <layout>",
		Short: "Render a packed layout to SVG or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw image ids on SVG rects")

	return cmd
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !render.ValidFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg' or 'json')", f)
		}
	}
	return nil
}

func (c *CLI) runRender(input string, opts *renderOpts) error {
	doc, err := wall.ReadDocumentFile(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded layout: %d placements, %d rows", len(doc.Images), doc.Rows())

	var svgOpts []render.SVGOption
	if opts.labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}

	for _, format := range opts.formats {
		data, err := render.Render(doc, format, svgOpts...)
		if err != nil {
			return err
		}
		c.Logger.Debugf("Generated %s: %d bytes", format, len(data))

		path := opts.output
		if path == "" {
			path = outputPath("", input, format)
		} else if len(opts.formats) > 1 {
			path = outputPath("", path, format)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(path)
	}

	printSuccess("Rendered %s", input)
	return nil
}
