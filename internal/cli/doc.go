// Package cli implements the mergebase command-line interface.
//
// # Commands
//
//   - lca: compute the LCA and SPCAs of two or more changesets
//   - render: draw a history graph with the result highlighted
//   - load: copy a graph file into Redis or MongoDB
//   - cache: inspect, prune or clear the local cache
//   - completion: shell completion scripts
//
// History is read from a graph file (--dag), a Redis server (--redis-addr)
// or a MongoDB deployment (--mongo-uri). Remote fetches go through a node
// cache; computed reports are cached for every source.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log. At debug level every fetch, store query, cache event
// and significant node is logged with the run ID.
//
// # Exit Codes
//
// main maps errors with [errors.ExitCode]: 2 for bad input, 3 when the
// leaves share no common ancestor, 4 when one leaf is an ancestor of
// another, 130 on interrupt and 1 otherwise.
//
// [errors.ExitCode]: github.com/matzehuels/mergebase/pkg/errors.ExitCode
package cli
