// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package panel

import "context"

// Mixin directions as seen from the subject channel: "out" severs an edge
// where the subject is the source, "in" severs an edge where the subject is
// the destination.
const (
	MixinOut = "out"
	MixinIn  = "in"
)

// Mixin represents a directed forwarding edge: traffic of SourceChannel is
// fed into DestChannel. The edge exists on behalf of the read-capable key
// that authorized it and cannot outlive that key.
type Mixin struct {
	SourceChannel string
	DestChannel   string
	LinkedBy      string
}

// MixinPage contains mixin edges of a single channel, resolved to channel
// summaries for both directions.
type MixinPage struct {
	Incoming []Channel
	Outgoing []Channel
}

// MixinRepository specifies a mixin edge persistence API. The edge table is
// the authoritative representation of the forwarding graph.
type MixinRepository interface {
	// Save persists the edge. The store enforces (source, dest) uniqueness
	// and re-evaluates reachability inside the insert transaction, so a
	// concurrent writer loses with ErrAlreadyMixed or ErrCircleMixin rather
	// than corrupting the graph.
	Save(ctx context.Context, mixin Mixin) (Mixin, error)

	// Remove removes the edge (source, dest). Returns ErrBadThread if no
	// such edge exists.
	Remove(ctx context.Context, sourceID, destID string) error

	// RetrieveBySource retrieves all edges going out of the specified
	// channel.
	RetrieveBySource(ctx context.Context, sourceID string) ([]Mixin, error)

	// RetrieveByDest retrieves all edges coming into the specified channel.
	RetrieveByDest(ctx context.Context, destID string) ([]Mixin, error)
}

// MixinCache is a non-authoritative adjacency mirror: for every source
// channel it keeps the set of destination channels currently mixed out of
// it. The mirror is derived entirely from MixinRepository and must be
// rebuildable from it at any time.
type MixinCache interface {
	// Add appends the destination to the source channel's adjacency set.
	Add(ctx context.Context, sourceID, destID string) error

	// Remove drops the destination from the source channel's adjacency set.
	Remove(ctx context.Context, sourceID, destID string) error

	// Mixins returns the destination ids mixed out of the source channel.
	Mixins(ctx context.Context, sourceID string) ([]string, error)

	// Rebuild replaces the source channel's adjacency set with the provided
	// authoritative edge set.
	Rebuild(ctx context.Context, sourceID string, destIDs []string) error
}
