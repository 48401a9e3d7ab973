package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	"github.com/matzehuels/mergebase/pkg/cache"
	"github.com/matzehuels/mergebase/pkg/dag"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	mbio "github.com/matzehuels/mergebase/pkg/io"
	"github.com/matzehuels/mergebase/pkg/store"
	"github.com/matzehuels/mergebase/pkg/store/memory"
	"github.com/matzehuels/mergebase/pkg/store/mongostore"
	"github.com/matzehuels/mergebase/pkg/store/redisstore"
)

// sourceOpts selects where changesets are read from. Exactly one of the
// file, Redis and MongoDB sources must be set.
type sourceOpts struct {
	dagFile string // JSON or TOML graph file
	dagID   string // DAG identifier; defaults to the file name for file sources

	redisAddr   string
	redisPrefix string

	mongoURI        string
	mongoDB         string
	mongoCollection string

	noCache    bool
	cacheTTL   time.Duration
	cacheRedis string // shared cache server; empty uses the file cache
}

func (o *sourceOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.dagFile, "dag", "", "graph file (.json or .toml)")
	f.StringVar(&o.dagID, "dag-id", "", "DAG identifier (required for redis and mongo sources)")
	f.StringVar(&o.redisAddr, "redis-addr", "", "read changesets from the Redis server at this address")
	f.StringVar(&o.redisPrefix, "redis-prefix", redisstore.DefaultPrefix, "key prefix of changeset hashes")
	f.StringVar(&o.mongoURI, "mongo-uri", "", "read changesets from this MongoDB deployment")
	f.StringVar(&o.mongoDB, "mongo-db", appName, "MongoDB database")
	f.StringVar(&o.mongoCollection, "mongo-collection", "changesets", "MongoDB collection")
	f.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	f.DurationVar(&o.cacheTTL, "cache-ttl", defaultCacheTTL, "lifetime of cached nodes and results")
	f.StringVar(&o.cacheRedis, "cache-redis", "", "use the Redis server at this address as cache")
}

func (o *sourceOpts) validate() error {
	n := 0
	for _, s := range []string{o.dagFile, o.redisAddr, o.mongoURI} {
		if s != "" {
			n++
		}
	}
	switch {
	case n == 0:
		return errs.New(errs.ErrCodeInvalidInput, "one of --dag, --redis-addr or --mongo-uri is required")
	case n > 1:
		return errs.New(errs.ErrCodeInvalidInput, "--dag, --redis-addr and --mongo-uri are mutually exclusive")
	case o.dagFile == "" && o.dagID == "":
		return errs.New(errs.ErrCodeInvalidInput, "--dag-id is required for redis and mongo sources")
	}
	if o.dagID != "" {
		return errs.ValidateDagID(o.dagID)
	}
	return nil
}

// source is an opened changeset source plus the cache serving it.
type source struct {
	dagID   string
	fetcher ancestry.Fetcher
	graph   *dag.DAG // file sources only
	remote  bool

	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration

	closers []func() error
}

func (s *source) Close() error {
	var errList []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errList = append(errList, s.closers[i]())
	}
	return errors.Join(errList...)
}

// openSource connects to the configured source. Remote fetchers are wrapped
// with the node cache; file sources are already in memory and only use the
// cache for results, scoped by the file's content hash.
func (c *CLI) openSource(ctx context.Context, o *sourceOpts) (*source, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	ch, err := c.newCache(ctx, o)
	if err != nil {
		return nil, err
	}
	s := &source{cache: ch, ttl: o.cacheTTL, closers: []func() error{ch.Close}}

	switch {
	case o.dagFile != "":
		err = s.openFile(o)
	case o.redisAddr != "":
		err = s.openRedis(ctx, o)
	default:
		err = s.openMongo(ctx, o)
	}
	if err != nil {
		s.Close()
		return nil, err
	}
	c.Logger.Debug("source ready", "dag", s.dagID, "remote", s.remote)
	return s, nil
}

func (s *source) openFile(o *sourceOpts) error {
	data, g, err := readGraph(o.dagFile)
	if err != nil {
		return err
	}
	s.dagID = o.dagID
	if s.dagID == "" {
		s.dagID = dagIDFromPath(o.dagFile)
	}
	mem := memory.New()
	if err := mem.Put(s.dagID, g); err != nil {
		return err
	}
	s.fetcher = mem
	s.graph = g
	s.keyer = cache.NewScopedKeyer(nil, keyScope+cache.Hash(data)[:12]+":")
	return nil
}

func (s *source) openRedis(ctx context.Context, o *sourceOpts) error {
	rs, err := redisstore.Dial(ctx, redisstore.Config{
		Addr:    o.redisAddr,
		Prefix:  o.redisPrefix,
		Backoff: cache.DefaultBackoff,
	})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, rs.Close)
	s.useRemote(o.dagID, rs)
	return nil
}

func (s *source) openMongo(ctx context.Context, o *sourceOpts) error {
	ms, err := mongostore.Dial(ctx, mongostore.Config{
		URI:        o.mongoURI,
		Database:   o.mongoDB,
		Collection: o.mongoCollection,
	})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ms.Close(ctx)
	})
	s.useRemote(o.dagID, ms)
	return nil
}

func (s *source) useRemote(dagID string, f ancestry.Fetcher) {
	s.dagID = dagID
	s.remote = true
	s.keyer = cache.NewScopedKeyer(nil, keyScope)
	cf := store.Cached(f, s.cache, s.ttl)
	cf.Keyer = s.keyer
	s.fetcher = cf
}

// newCache picks the cache backend. A cache directory that cannot be
// created only disables caching.
func (c *CLI) newCache(ctx context.Context, o *sourceOpts) (cache.Cache, error) {
	if o.noCache {
		return cache.NewNullCache(), nil
	}
	if o.cacheRedis != "" {
		rc, err := cache.DialRedisCache(ctx, o.cacheRedis, appName+":cache:")
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeFetch, err, "connect to cache at %s", o.cacheRedis)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// readGraph loads a graph file and returns its raw bytes alongside.
func readGraph(path string) ([]byte, *dag.DAG, error) {
	format, err := mbio.FormatOf(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	g, err := mbio.Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, nil, err
	}
	return data, g, nil
}

func dagIDFromPath(path string) string {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	if errs.ValidateDagID(id) != nil {
		return "local"
	}
	return id
}
