// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a value of type T to a deterministic 64-bit digest. The map
// requires the digest to be stable for the lifetime of the map: two maps
// being compared by Phi must use hashers with the same behavior (and, if
// seeded, the same seed).
type Hasher[T any] interface {
	Hash(T) uint64
}

// HasherFunc adapts a plain function to the Hasher interface.
type HasherFunc[T any] func(T) uint64

// Hash implements Hasher.
func (f HasherFunc[T]) Hash(v T) uint64 { return f(v) }

// defaultHasher returns the library's built-in hasher for common kinds,
// backed by xxhash -- the same content hash the teacher module depends on
// for its own digesting needs. It covers strings, the integer families,
// bools, and fmt.Stringer as a fallback; anything else falls back to
// hashing its fmt.Sprintf("%#v", ...) representation, which is stable but
// not cheap -- callers with expensive or high-cardinality value types
// should supply their own Hasher via WithValueHasher, optionally wrapped in
// WithMemoizedValueHasher.
func defaultHasher[T any]() Hasher[T] {
	return HasherFunc[T](func(v T) uint64 {
		return hashAny(any(v))
	})
}

func hashAny(v any) uint64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return xxhash.Sum64String(x)
	case []byte:
		return xxhash.Sum64(x)
	case bool:
		if x {
			return xxhash.Sum64String("true")
		}
		return xxhash.Sum64String("false")
	case int:
		return hashInt64(int64(x))
	case int8:
		return hashInt64(int64(x))
	case int16:
		return hashInt64(int64(x))
	case int32:
		return hashInt64(int64(x))
	case int64:
		return hashInt64(x)
	case uint:
		return hashUint64(uint64(x))
	case uint8:
		return hashUint64(uint64(x))
	case uint16:
		return hashUint64(uint64(x))
	case uint32:
		return hashUint64(uint64(x))
	case uint64:
		return hashUint64(x)
	case uintptr:
		return hashUint64(uint64(x))
	case float32:
		return xxhash.Sum64String(strconv.FormatFloat(float64(x), 'g', -1, 32))
	case float64:
		return xxhash.Sum64String(strconv.FormatFloat(x, 'g', -1, 64))
	case fmt.Stringer:
		return xxhash.Sum64String(x.String())
	default:
		return xxhash.Sum64String(fmt.Sprintf("%#v", x))
	}
}

func hashInt64(v int64) uint64  { return hashUint64(uint64(v)) }
func hashUint64(v uint64) uint64 {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}
