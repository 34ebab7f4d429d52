// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import "github.com/open-policy-agent/champ/internal/arena"

// Entry is a stored (hash, key, value) triple. The hash is cached on the
// entry to avoid recomputing it during structural operations.
type Entry[K comparable, V any] struct {
	Hash  uint64
	Key   K
	Value V
}

type kind uint8

const (
	kindInner kind = iota
	kindCollision
)

// node is a tagged variant, represented as a single POD struct rather than
// an interface so it can live in a plain arena.Arena[node[K, V]] -- grounded
// on the teacher's fixed-layout arena.Node (v1/storage/arena/node.go),
// generalized from "one JSON value shape" to "Inner xor Collision".
//
// Inner fields: dataMap, nodeMap, entriesStart, childStart, subtreePhi.
// Collision fields: hash, entriesStart, collLen, subtreePhi.
// dataMap and nodeMap are always zero for a Collision node; lookup, insert,
// remove and iteration tell the two variants apart by checking kind.
type node[K comparable, V any] struct {
	kind kind

	dataMap uint32
	nodeMap uint32

	entriesStart arena.Index // data block (Inner) or entries block (Collision)
	childStart   arena.Index // child-index block (Inner only)

	subtreePhi uint64

	hash    uint64 // Collision only
	collLen uint8  // Collision only, >= 2
}
