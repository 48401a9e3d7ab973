package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mergebase/pkg/cache"
	"github.com/matzehuels/mergebase/pkg/dag"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/store/mongostore"
	"github.com/matzehuels/mergebase/pkg/store/redisstore"
)

// loadOpts holds the command-line flags for the load command.
type loadOpts struct {
	dagID string

	redisAddr   string
	redisPrefix string

	mongoURI        string
	mongoDB         string
	mongoCollection string
}

// putter is implemented by the writable stores.
type putter interface {
	Put(ctx context.Context, dagID string, g *dag.DAG) error
}

func (c *CLI) loadCommand() *cobra.Command {
	var opts loadOpts

	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Copy a graph file into Redis or MongoDB",
		Example: `  mergebase load history.toml --redis-addr localhost:6379 --dag-id repo
  mergebase load history.json --mongo-uri mongodb://localhost:27017 --dag-id repo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLoad(cmd.Context(), args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dagID, "dag-id", "", "DAG identifier (default: file name)")
	f.StringVar(&opts.redisAddr, "redis-addr", "", "Redis server address")
	f.StringVar(&opts.redisPrefix, "redis-prefix", redisstore.DefaultPrefix, "key prefix of changeset hashes")
	f.StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection URI")
	f.StringVar(&opts.mongoDB, "mongo-db", appName, "MongoDB database")
	f.StringVar(&opts.mongoCollection, "mongo-collection", "changesets", "MongoDB collection")
	cmd.MarkFlagsMutuallyExclusive("redis-addr", "mongo-uri")
	cmd.MarkFlagsOneRequired("redis-addr", "mongo-uri")

	return cmd
}

func (c *CLI) runLoad(ctx context.Context, path string, opts *loadOpts) error {
	_, g, err := readGraph(path)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "graph %s", path)
	}
	dagID := opts.dagID
	if dagID == "" {
		dagID = dagIDFromPath(path)
	}
	if err := errs.ValidateDagID(dagID); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	p, backend, closeFn, err := dialPutter(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := p.Put(ctx, dagID, g); err != nil {
		return err
	}
	prog.done("Loaded " + dagID)
	printSuccess(c.out, "Loaded %d changesets into %s", g.NodeCount(), backend)
	printDetail(c.out, "dag: %s", dagID)
	return nil
}

func dialPutter(ctx context.Context, opts *loadOpts) (putter, string, func(), error) {
	if opts.redisAddr != "" {
		rs, err := redisstore.Dial(ctx, redisstore.Config{
			Addr:    opts.redisAddr,
			Prefix:  opts.redisPrefix,
			Backoff: cache.DefaultBackoff,
		})
		if err != nil {
			return nil, "", nil, err
		}
		return rs, "redis", func() { _ = rs.Close() }, nil
	}
	ms, err := mongostore.Dial(ctx, mongostore.Config{
		URI:        opts.mongoURI,
		Database:   opts.mongoDB,
		Collection: opts.mongoCollection,
	})
	if err != nil {
		return nil, "", nil, err
	}
	return ms, "mongo", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ms.Close(ctx)
	}, nil
}
