// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package flattrie

import "errors"

var (
	// ErrKeyLengthTooShort is returned when the maximum key length is below
	// two. Keys of a single symbol need a plain slice, not a trie.
	ErrKeyLengthTooShort = errors.New("max key length must be at least 2")

	// ErrEmptyAlphabet is returned for an alphabet without symbols.
	ErrEmptyAlphabet = errors.New("alphabet has no symbols")

	// ErrCapacityOverflow is returned when the slot count does not fit in an int.
	ErrCapacityOverflow = errors.New("trie capacity overflows int")
)

// Trie is a fixed-depth trie over a fixed alphabet. Every key of one to
// MaxKeyLen symbols owns a slot in a single pre-sized slice, addressed by
// arithmetic on the key. Slots are never absent: a slot that was not written
// holds the fill value.
//
// A Trie is not safe for concurrent use.
type Trie[K, V any] struct {
	alphabet Alphabet[K]
	symbols  int
	layout   *Layout
	slots    []V
}

// New returns a trie for keys of up to maxKeyLen symbols of alphabet with
// every slot set to fill. It uses SharedWeight addressing.
func New[K, V any](alphabet Alphabet[K], maxKeyLen int, fill V) (*Trie[K, V], error) {
	return NewWithAddressing(alphabet, maxKeyLen, fill, SharedWeight)
}

// NewWithAddressing is New with an explicit addressing scheme.
func NewWithAddressing[K, V any](alphabet Alphabet[K], maxKeyLen int, fill V, addressing Addressing) (*Trie[K, V], error) {
	layout, err := layoutFor(alphabet.Size(), maxKeyLen, addressing)
	if err != nil {
		return nil, err
	}
	t := &Trie[K, V]{
		alphabet: alphabet,
		symbols:  layout.Symbols,
		layout:   layout,
		slots:    make([]V, layout.Slots),
	}
	t.Reset(fill)
	return t, nil
}

// NewDigits returns a trie keyed by the values 0 through 9.
func NewDigits[V any](maxKeyLen int, fill V) (*Trie[uint8, V], error) {
	return New[uint8, V](Digits, maxKeyLen, fill)
}

// NewBytes returns a trie keyed by arbitrary bytes.
func NewBytes[V any](maxKeyLen int, fill V) (*Trie[byte, V], error) {
	return New[byte, V](Bytes, maxKeyLen, fill)
}

// Index returns the slot addressed by key. Symbols past MaxKeyLen are
// ignored. It panics if key is empty.
func (t *Trie[K, V]) Index(key []K) int {
	if len(key) == 0 {
		panic("flattrie: empty key")
	}
	lvl := min(len(key), t.layout.MaxKeyLen) - 1
	idx := t.layout.Offsets[lvl]

	if t.layout.Addressing == Positional {
		acc := 0
		for i := 0; i <= lvl; i++ {
			acc = acc*t.symbols + t.alphabet.Map(key[i])
		}
		return idx + acc
	}

	for i := 0; i < lvl; i++ {
		idx += t.alphabet.Map(key[i]) * t.symbols
	}
	// The terminal symbol does not move into a deeper region.
	idx += t.alphabet.Map(key[lvl])
	return idx
}

// Insert stores value in the slot for key.
func (t *Trie[K, V]) Insert(key []K, value V) {
	t.slots[t.Index(key)] = value
}

// Get returns the value in the slot for key, which is the fill value if the
// slot was not written since construction or the last Reset.
func (t *Trie[K, V]) Get(key []K) V {
	return t.slots[t.Index(key)]
}

// Ref returns a pointer to the slot for key. It stays valid for the life of
// the trie.
func (t *Trie[K, V]) Ref(key []K) *V {
	return &t.slots[t.Index(key)]
}

// Reset sets every slot to fill.
func (t *Trie[K, V]) Reset(fill V) {
	for i := range t.slots {
		t.slots[i] = fill
	}
}

// Valid reports whether key is non-empty and every symbol that takes part in
// addressing belongs to the alphabet. Insert and Get do not check this.
func (t *Trie[K, V]) Valid(key []K) bool {
	if len(key) == 0 {
		return false
	}
	for _, k := range key[:min(len(key), t.layout.MaxKeyLen)] {
		if !Contains(t.alphabet, k) {
			return false
		}
	}
	return true
}

// Len is the number of slots in the trie.
func (t *Trie[K, V]) Len() int {
	return len(t.slots)
}

func (t *Trie[K, V]) MaxKeyLen() int {
	return t.layout.MaxKeyLen
}

func (t *Trie[K, V]) Alphabet() Alphabet[K] {
	return t.alphabet
}

// Layout returns a copy of the trie's storage layout.
func (t *Trie[K, V]) Layout() Layout {
	return t.layout.clone()
}
