package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// Keyer derives cache keys.
type Keyer interface {
	// NodeKey addresses one fetched node of a DAG.
	NodeKey(dagID, id string) string
	// ResultKey addresses a computed result for a leaf set. The key does
	// not depend on leaf order.
	ResultKey(dagID string, leaves []string) string
}

// DefaultKeyer produces keys of the form "node:<dag>:<id>" and
// "result:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) NodeKey(dagID, id string) string { return NodeKey(dagID, id) }

func (DefaultKeyer) ResultKey(dagID string, leaves []string) string {
	return hashKey("result", dagID, slices.Sorted(slices.Values(leaves)))
}

// NodeKey returns the default key for a node.
func NodeKey(dagID, id string) string { return fmt.Sprintf("node:%s:%s", dagID, id) }

// ScopedKeyer wraps a Keyer with a prefix, so several environments can
// share one backend without colliding:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) NodeKey(dagID, id string) string {
	return k.prefix + k.inner.NodeKey(dagID, id)
}

func (k *ScopedKeyer) ResultKey(dagID string, leaves []string) string {
	return k.prefix + k.inner.ResultKey(dagID, leaves)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
