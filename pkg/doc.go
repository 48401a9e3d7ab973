// Package pkg provides the libraries behind mergebase.
//
// # Overview
//
// Mergebase answers "where did these changesets diverge?" for histories with
// criss-cross merges, where a single merge base does not exist. Given two or
// more leaf changesets it reports every significant partial common ancestor
// (SPCA) and the single lowest common ancestor (LCA) covering all leaves,
// while fetching as little history as possible.
//
// # Architecture
//
//	graph file / Redis / MongoDB
//	         ↓
//	    [store] fetchers (optionally behind a [cache])
//	         ↓
//	    [ancestry] workspace (bit-set closures over a generation-ordered frontier)
//	         ↓
//	    [io] report / [render/nodelink] diagram
//
// # Quick Start
//
//	g, _ := io.Import("history.toml")
//	ws, err := ancestry.FindLCA(ctx, "repo", g, []string{"feature", "main"})
//	if err != nil {
//	    return err
//	}
//	lca, _ := ws.LCA()
//	for a := range ws.All(false) {
//	    fmt.Println(a.ID, a.Class, a.ImmediateDescendants())
//	}
//
// # Packages
//
//   - [ancestry]: the LCA/SPCA computation and its query API
//   - [bitset]: growable bit vectors for leaf closures
//   - [dag]: in-memory changeset graphs; [dag/transform] assigns generations
//   - [io]: JSON and TOML graph files, JSON reports
//   - [store]: memory, Redis and MongoDB fetchers and the caching wrapper
//   - [cache]: null, memory, file and Redis byte caches
//   - [observability]: hooks for traversal, store and cache events
//   - [errors]: coded errors shared by every package
//
// [ancestry]: github.com/matzehuels/mergebase/pkg/ancestry
// [bitset]: github.com/matzehuels/mergebase/pkg/bitset
// [dag]: github.com/matzehuels/mergebase/pkg/dag
// [dag/transform]: github.com/matzehuels/mergebase/pkg/dag/transform
// [io]: github.com/matzehuels/mergebase/pkg/io
// [store]: github.com/matzehuels/mergebase/pkg/store
// [cache]: github.com/matzehuels/mergebase/pkg/cache
// [observability]: github.com/matzehuels/mergebase/pkg/observability
// [errors]: github.com/matzehuels/mergebase/pkg/errors
// [render/nodelink]: github.com/matzehuels/mergebase/pkg/render/nodelink
package pkg
