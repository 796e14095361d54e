// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package flattrie

import "golang.org/x/exp/constraints"

// Alphabet maps the symbols of a key onto the dense range [0, Size()).
//
// Map must be total and deterministic. The trie trusts it: a symbol that
// maps outside the range addresses an unrelated slot or panics on the
// storage bounds check.
type Alphabet[K any] interface {
	Size() int
	Map(K) int
}

// Identity is an alphabet whose symbols are already dense indexes.
type Identity[K constraints.Integer] struct {
	N int
}

func (a Identity[K]) Size() int {
	return a.N
}

func (a Identity[K]) Map(k K) int {
	return int(k)
}

// Offset is an alphabet of N consecutive symbols starting at Base.
type Offset[K constraints.Integer] struct {
	Base K
	N    int
}

func (a Offset[K]) Size() int {
	return a.N
}

func (a Offset[K]) Map(k K) int {
	return int(k) - int(a.Base)
}

var (
	// Digits are the values 0 through 9.
	Digits = Identity[uint8]{N: 10}

	// CharDigits are the ASCII characters '0' through '9'.
	CharDigits = Offset[byte]{Base: '0', N: 10}

	// Bytes are arbitrary byte values.
	Bytes = Identity[byte]{N: 256}

	// LowerCase are the ASCII letters 'a' through 'z'.
	LowerCase = Offset[byte]{Base: 'a', N: 26}
)

// Contains reports whether k maps inside the alphabet.
func Contains[K any](a Alphabet[K], k K) bool {
	i := a.Map(k)
	return i >= 0 && i < a.Size()
}
