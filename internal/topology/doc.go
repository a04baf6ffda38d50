// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package topology holds the immutable graph view of one network: its nodes,
// the undirected channels between them, and the adjacency queries the binding
// and rendering stages need.
//
// # Why Topology Exists
//
// A network arrives as plain lists of nodes and channels. Those lists can be
// inconsistent: a channel can name a node that does not exist, two nodes can
// share a slug, a channel can connect a node to itself. The topology is the
// single place where those structural rules are checked. Once Load succeeds,
// every later stage can rely on them without re-checking.
//
// # Lifecycle
//
//  1. Load validates a model.Network and builds the adjacency index.
//  2. The result is read-only. Every accessor returns copies, so callers
//     cannot reach into the topology and change it.
//  3. The composer copies the topology into the asset, and the simulator
//     renderer derives effective links from it.
//
// # Thread-Safety
//
// A Network is never mutated after Load returns, so it can be shared across
// goroutines without locking.
package topology
