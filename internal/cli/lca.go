package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	mbio "github.com/matzehuels/mergebase/pkg/io"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// lcaOpts holds the command-line flags for the lca command.
type lcaOpts struct {
	source     sourceOpts
	leaves     []string // from --leaves and positional arguments
	withLeaves bool     // list the leaves in the node table
	format     string   // "text" or "json"
	trace      bool     // log every traversal step at debug level
	dump       bool     // write the record cache to stderr after computing
}

func (c *CLI) lcaCommand() *cobra.Command {
	opts := lcaOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "lca [leaf...]",
		Short: "Compute the LCA and SPCAs of two or more changesets",
		Long: `Compute the lowest common ancestor of the given changesets together with every
significant partial common ancestor (SPCA) found on the way. Criss-cross merges
produce several SPCAs; the LCA is the single root-most SPCA that covers all leaves.`,
		Example: `  mergebase lca --dag history.toml feature main
  mergebase lca --redis-addr localhost:6379 --dag-id repo --leaves a1f3,b7c9 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.leaves = append(opts.leaves, args...)
			return c.runLCA(cmd.Context(), &opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringSliceVarP(&opts.leaves, "leaves", "l", nil, "leaf changesets (comma separated or repeated)")
	cmd.Flags().BoolVar(&opts.withLeaves, "with-leaves", false, "include the leaves in the node table")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log every traversal step (requires -v)")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "dump the visited records to stderr")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(formatText, formatJSON))

	return cmd
}

func (c *CLI) runLCA(ctx context.Context, opts *lcaOpts) error {
	if opts.format != formatText && opts.format != formatJSON {
		return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (want text or json)", opts.format)
	}
	if len(opts.leaves) < 2 {
		return errs.New(errs.ErrCodeInvalidInput, "need at least two leaves, got %d", len(opts.leaves))
	}

	src, err := c.openSource(ctx, &opts.source)
	if err != nil {
		return err
	}
	defer src.Close()

	key := src.keyer.ResultKey(src.dagID, opts.leaves)
	if r, ok := c.cachedReport(ctx, src, key); ok {
		if err := c.writeReport(r, opts); err != nil {
			return err
		}
		if opts.format == formatText {
			printStats(c.out, 0, len(r.SPCAs)+1, true)
		}
		return nil
	}

	prog := newProgress(c.Logger)
	ws, err := c.compute(ctx, src, opts)
	if err != nil {
		return err
	}
	defer ws.Release()
	prog.done(fmt.Sprintf("Computed ancestry of %d leaves", ws.LeafCount()))

	r, err := mbio.BuildReport(ws, c.RunID)
	if err != nil {
		return err
	}
	c.storeReport(ctx, src, key, r)
	if err := c.writeReport(r, opts); err != nil {
		return err
	}
	if opts.format == formatText {
		printStats(c.out, ws.Visited(), ws.SPCACount()+ws.LCACount(), false)
	}
	return nil
}

func (c *CLI) compute(ctx context.Context, src *source, opts *lcaOpts) (*ancestry.Workspace, error) {
	var wsOpts []ancestry.Option
	if opts.trace {
		wsOpts = append(wsOpts, ancestry.WithLogger(c.Logger))
	}

	var sp *Spinner
	if src.remote && opts.format == formatText {
		sp = newSpinnerWithContext(ctx, "Walking history")
		sp.Start()
	}
	ws, err := ancestry.FindLCA(ctx, src.dagID, src.fetcher, opts.leaves, wsOpts...)
	if sp != nil {
		sp.Stop()
	}

	if opts.dump {
		if derr := ws.Dump(os.Stderr); derr != nil {
			c.Logger.Warn("dump failed", "err", derr)
		}
	}
	if err != nil {
		ws.Release()
		return nil, err
	}
	return ws, nil
}

func (c *CLI) cachedReport(ctx context.Context, src *source, key string) (*mbio.Report, bool) {
	data, hit, err := src.cache.Get(ctx, key)
	if err != nil {
		c.Logger.Debug("result cache unavailable", "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var r mbio.Report
	if err := json.Unmarshal(data, &r); err != nil {
		_ = src.cache.Delete(ctx, key)
		return nil, false
	}
	c.Logger.Debug("result cache hit", "key", key, "computed_by", r.RunID)
	r.RunID = c.RunID
	return &r, true
}

func (c *CLI) storeReport(ctx context.Context, src *source, key string, r *mbio.Report) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := src.cache.Set(ctx, key, data, src.ttl); err != nil {
		c.Logger.Warn("could not cache result", "err", err)
	}
}

func (c *CLI) writeReport(r *mbio.Report, opts *lcaOpts) error {
	if opts.format == formatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	printReport(c.out, r, opts.withLeaves)
	return nil
}
