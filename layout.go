// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package flattrie

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultLayoutCache = 128

// Addressing selects how a key is turned into a slot inside its region.
type Addressing int

const (
	// SharedWeight weights every symbol but the last by the alphabet size.
	// Distinct keys of the same length can share a slot, e.g. [1,2,x] and
	// [2,1,x].
	SharedWeight Addressing = iota

	// Positional weights the symbol at position i of a key of effective
	// length n by S^(n-1-i). Every key of a given length has its own slot.
	Positional
)

func (a Addressing) String() string {
	switch a {
	case SharedWeight:
		return "shared"
	case Positional:
		return "positional"
	default:
		return fmt.Sprintf("Addressing(%d)", int(a))
	}
}

// Layout describes how the flat storage of a trie is partitioned. It is
// computed once per (symbols, max key length, addressing) and never changes.
type Layout struct {
	Symbols    int
	MaxKeyLen  int
	Addressing Addressing

	// Offsets[i] is the first slot of the region for keys of effective
	// length i+1.
	Offsets []int

	// Size is Symbols^MaxKeyLen.
	Size int

	// Slots is the length of the storage slice. It is at least Size and
	// covers the highest slot the addressing scheme can reach.
	Slots int
}

type layoutKey struct {
	symbols    int
	maxKeyLen  int
	addressing Addressing
}

var layouts *lru.Cache[layoutKey, *Layout]

func init() {
	var err error
	layouts, err = lru.New[layoutKey, *Layout](defaultLayoutCache)
	if err != nil {
		panic(err)
	}
}

// layoutFor returns the memoised layout for the given parameters, computing
// it on a miss. The returned layout is shared and must not be modified.
func layoutFor(symbols, maxKeyLen int, addressing Addressing) (*Layout, error) {
	key := layoutKey{symbols: symbols, maxKeyLen: maxKeyLen, addressing: addressing}
	if l, ok := layouts.Get(key); ok {
		return l, nil
	}
	l, err := computeLayout(symbols, maxKeyLen, addressing)
	if err != nil {
		return nil, err
	}
	layouts.Add(key, l)
	return l, nil
}

func computeLayout(symbols, maxKeyLen int, addressing Addressing) (*Layout, error) {
	if maxKeyLen < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrKeyLengthTooShort, maxKeyLen)
	}
	if symbols < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrEmptyAlphabet, symbols)
	}
	overflow := fmt.Errorf("%w: %d symbols, max key length %d", ErrCapacityOverflow, symbols, maxKeyLen)

	size, ok := powerCheck(symbols, maxKeyLen)
	if !ok {
		return nil, overflow
	}

	// Closed form: offsets[i] = S + S^2 + ... + S^i. Computed incrementally
	// so every step is overflow checked; RegionOffsets yields the same values.
	offsets := make([]int, maxKeyLen)
	level := 1
	for i := 1; i < maxKeyLen; i++ {
		if level, ok = mulCheck(level, symbols); !ok {
			return nil, overflow
		}
		if offsets[i], ok = addCheck(offsets[i-1], level); !ok {
			return nil, overflow
		}
	}

	last := offsets[maxKeyLen-1]
	var slots int
	switch addressing {
	case SharedWeight:
		// Highest reachable slot: every non-terminal symbol maps to S-1.
		step, ok1 := mulCheck((maxKeyLen-1)*(symbols-1), symbols)
		reach, ok2 := addCheck(last, step)
		reach, ok3 := addCheck(reach, symbols)
		if !ok1 || !ok2 || !ok3 {
			return nil, overflow
		}
		slots = max(size, reach)
	case Positional:
		if slots, ok = addCheck(last, size); !ok {
			return nil, overflow
		}
	default:
		return nil, fmt.Errorf("unknown addressing %v", addressing)
	}

	return &Layout{
		Symbols:    symbols,
		MaxKeyLen:  maxKeyLen,
		Addressing: addressing,
		Offsets:    offsets,
		Size:       size,
		Slots:      slots,
	}, nil
}

func (l *Layout) clone() Layout {
	c := *l
	c.Offsets = slices.Clone(l.Offsets)
	return c
}

// PlanLayout returns the layout a trie with these parameters would use,
// without allocating any storage.
func PlanLayout(symbols, maxKeyLen int, addressing Addressing) (Layout, error) {
	l, err := layoutFor(symbols, maxKeyLen, addressing)
	if err != nil {
		return Layout{}, err
	}
	return l.clone(), nil
}
