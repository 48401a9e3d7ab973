// Package mongostore reads changesets from a MongoDB collection.
//
// Each changeset is one document:
//
//	{"dag": "repo", "id": "c0ffee", "generation": 3, "parents": ["abc", "def"]}
//
// [Dial] creates a unique index on (dag, id).
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	"github.com/matzehuels/mergebase/pkg/dag"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

// Collection is the subset of *mongo.Collection the store uses.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertMany(ctx context.Context, documents []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// Config configures a MongoDB-backed store.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Document is the stored form of a changeset.
type Document struct {
	DagID      string   `bson:"dag"`
	ID         string   `bson:"id"`
	Generation uint32   `bson:"generation"`
	Parents    []string `bson:"parents"`
}

// Store fetches nodes from a collection.
type Store struct {
	coll       Collection
	disconnect func(context.Context) error
}

// New wraps an existing collection.
func New(coll Collection) *Store {
	return &Store{coll: coll}
}

// Dial connects to cfg.URI and prepares the collection.
func Dial(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "ping mongodb")
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "dag", Value: 1}, {Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "create index on %s.%s", cfg.Database, cfg.Collection)
	}
	return &Store{coll: coll, disconnect: client.Disconnect}, nil
}

// Fetch implements [ancestry.Fetcher].
func (s *Store) Fetch(ctx context.Context, dagID, id string) (*ancestry.Node, error) {
	if id == ancestry.RootID {
		return &ancestry.Node{}, nil
	}

	start := time.Now()
	var doc Document
	err := s.coll.FindOne(ctx, bson.D{{Key: "dag", Value: dagID}, {Key: "id", Value: id}}).Decode(&doc)
	observability.Store().OnQuery(ctx, "mongo", dagID, id, time.Since(start), err)

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, errs.New(errs.ErrCodeNotFound, "node %s not found in dag %s", id, dagID)
	case err != nil:
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "mongo find %s/%s", dagID, id)
	}
	return &ancestry.Node{Generation: doc.Generation, Parents: doc.Parents}, nil
}

// Put inserts every node of g under dagID.
func (s *Store) Put(ctx context.Context, dagID string, g *dag.DAG) error {
	if err := errs.ValidateDagID(dagID); err != nil {
		return err
	}
	docs := make([]any, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		parents := g.Parents(n.ID)
		if parents == nil {
			parents = []string{}
		}
		docs = append(docs, Document{DagID: dagID, ID: n.ID, Generation: n.Generation, Parents: parents})
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errs.Wrap(errs.ErrCodeFetch, err, "mongo insert dag %s", dagID)
	}
	return nil
}

// Close disconnects a store created by [Dial].
func (s *Store) Close(ctx context.Context) error {
	if s.disconnect == nil {
		return nil
	}
	return s.disconnect(ctx)
}

var _ ancestry.Fetcher = (*Store)(nil)
