// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package flattrie

import "strings"

// DigitTrie is a Trie over CharDigits that also accepts string keys.
type DigitTrie[V any] struct {
	*Trie[byte, V]
}

// NewDigitTrie returns a DigitTrie with SharedWeight addressing.
func NewDigitTrie[V any](maxKeyLen int, fill V) (*DigitTrie[V], error) {
	t, err := New[byte, V](CharDigits, maxKeyLen, fill)
	if err != nil {
		return nil, err
	}
	return &DigitTrie[V]{Trie: t}, nil
}

// stringKey cuts s at its first NUL, if any.
func stringKey(s string) []byte {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return []byte(s)
}

// InsertString stores value under the digits of s. Digits past MaxKeyLen
// are ignored.
func (t *DigitTrie[V]) InsertString(s string, value V) {
	t.Insert(stringKey(s), value)
}

func (t *DigitTrie[V]) GetString(s string) V {
	return t.Get(stringKey(s))
}

func (t *DigitTrie[V]) RefString(s string) *V {
	return t.Ref(stringKey(s))
}
