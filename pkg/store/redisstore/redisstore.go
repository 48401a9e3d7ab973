// Package redisstore reads changesets from Redis.
//
// Each changeset is a hash at "<prefix><dag>:<id>" with two fields:
//
//	generation  decimal generation number
//	parents     parent ids separated by single spaces, in parent order
//
// Node ids never contain whitespace, so the parent list needs no escaping.
package redisstore

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	"github.com/matzehuels/mergebase/pkg/cache"
	"github.com/matzehuels/mergebase/pkg/dag"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

const (
	fieldGeneration = "generation"
	fieldParents    = "parents"

	// DefaultPrefix namespaces keys written by mergebase.
	DefaultPrefix = "mergebase:"
)

// Client is the subset of *redis.Client the store uses.
type Client interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	Close() error
}

// Config configures a Redis-backed store.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// Backoff retries unreachable-server errors. Zero means no retries.
	Backoff cache.Backoff
}

// Store fetches nodes from Redis hashes.
type Store struct {
	client  Client
	prefix  string
	backoff cache.Backoff
}

// New wraps an existing client.
func New(client Client, prefix string, backoff cache.Backoff) *Store {
	return &Store{client: client, prefix: prefix, backoff: backoff}
}

// Dial connects using cfg and checks the server answers.
func Dial(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "connect to redis at %s", cfg.Addr)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return New(client, prefix, cfg.Backoff), nil
}

// Key returns the hash key of a node.
func (s *Store) Key(dagID, id string) string {
	return s.prefix + dagID + ":" + id
}

// Fetch implements [ancestry.Fetcher].
func (s *Store) Fetch(ctx context.Context, dagID, id string) (*ancestry.Node, error) {
	if id == ancestry.RootID {
		return &ancestry.Node{}, nil
	}

	var fields map[string]string
	start := time.Now()
	err := s.backoff.Do(ctx, func() error {
		var err error
		fields, err = s.client.HGetAll(ctx, s.Key(dagID, id)).Result()
		if err != nil && transient(err) {
			return cache.Retryable(errors.Join(cache.ErrUnavailable, err))
		}
		return err
	})
	observability.Store().OnQuery(ctx, "redis", dagID, id, time.Since(start), err)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "redis hgetall %s", s.Key(dagID, id))
	}
	if len(fields) == 0 {
		return nil, errs.New(errs.ErrCodeNotFound, "node %s not found in dag %s", id, dagID)
	}
	return decode(id, fields)
}

func decode(id string, fields map[string]string) (*ancestry.Node, error) {
	gen, err := strconv.ParseUint(fields[fieldGeneration], 10, 32)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %s: bad generation %q", id, fields[fieldGeneration])
	}
	return &ancestry.Node{
		Generation: uint32(gen),
		Parents:    strings.Fields(fields[fieldParents]),
	}, nil
}

// Put writes every node of g under dagID.
func (s *Store) Put(ctx context.Context, dagID string, g *dag.DAG) error {
	if err := errs.ValidateDagID(dagID); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		err := s.client.HSet(ctx, s.Key(dagID, n.ID),
			fieldGeneration, strconv.FormatUint(uint64(n.Generation), 10),
			fieldParents, strings.Join(g.Parents(n.ID), " "),
		).Err()
		if err != nil {
			return errs.Wrap(errs.ErrCodeFetch, err, "redis hset %s", s.Key(dagID, n.ID))
		}
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error { return s.client.Close() }

// transient reports whether err looks like a connection problem worth
// retrying.
func transient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded)
}

var _ ancestry.Fetcher = (*Store)(nil)
