package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/render"
	"github.com/matzehuels/mergebase/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	dagFile     string   // graph file to draw
	leaves      []string // optional leaves whose ancestry is highlighted
	output      string   // output path; empty derives one from the input
	format      string   // dot, svg, pdf or png
	detailed    bool     // generation, class and metadata in labels
	focus       bool     // draw only the ancestry of the leaves
	convergence bool     // dotted edges to immediate significant descendants
	scale       float64  // PNG scale factor
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(render.FormatSVG), scale: 2}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a history graph with its common ancestors highlighted",
		Long: `Draw a history graph as a node-link diagram. With --leaves the ancestry of the
leaves is computed first and the LCA, SPCAs and leaves are colored; nodes the
traversal never had to fetch are drawn dashed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.dagFile = args[0]
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dagFile, "dag", "", "graph file (.json or .toml)")
	f.StringSliceVarP(&opts.leaves, "leaves", "l", nil, "leaves to compute and highlight")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, pdf or png")
	f.BoolVar(&opts.detailed, "detailed", false, "show generation, class and metadata in labels")
	f.BoolVar(&opts.focus, "focus", false, "draw only the leaves and their ancestors")
	f.BoolVar(&opts.convergence, "convergence", false, "draw edges from each common ancestor to its immediate significant descendants")
	f.Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion("dot", "svg", "pdf", "png"))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	if opts.dagFile == "" {
		return errs.New(errs.ErrCodeInvalidInput, "a graph file is required")
	}
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	_, g, err := readGraph(opts.dagFile)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "graph %s", opts.dagFile)
	}

	var ws *ancestry.Workspace
	if len(opts.leaves) > 0 {
		ws, err = ancestry.FindLCA(ctx, dagIDFromPath(opts.dagFile), g, opts.leaves)
		if err != nil {
			return err
		}
		defer ws.Release()
	}

	nodeOpts := nodelink.Options{Detailed: opts.detailed, Convergence: opts.convergence}
	if opts.focus {
		nodeOpts.Heads = opts.leaves
	}
	prog := newProgress(c.Logger)
	data, err := nodelink.Render(ctx, nodelink.ToDOT(g, ws, nodeOpts), format, opts.scale)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = outputPath(opts.dagFile, format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "write %s", out)
	}
	prog.done("Rendered " + string(format))
	printSuccess(c.out, "Rendered %d nodes", g.NodeCount())
	printFile(c.out, out)
	return nil
}

// outputPath swaps the input file's extension for the format's.
func outputPath(input string, format render.Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + string(format)
}
