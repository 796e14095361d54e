// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package flattrie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigitTrie_RejectsShortKeyLength(t *testing.T) {
	t.Parallel()

	_, err := NewDigitTrie[uint32](1, 0)
	require.ErrorIs(t, err, ErrKeyLengthTooShort)
}

func TestDigitTrie_InsertString(t *testing.T) {
	t.Parallel()

	trie, err := NewDigitTrie[uint32](4, 0)
	require.NoError(t, err)

	trie.InsertString("123", 100)
	require.Equal(t, uint32(100), trie.GetString("123"))
	require.Equal(t, uint32(100), trie.Get([]byte("123")))
	require.Equal(t, uint32(0), trie.GetString("1234"))
	require.Equal(t, uint32(0), trie.GetString("12"))
}

func TestDigitTrie_RefString(t *testing.T) {
	t.Parallel()

	trie, err := NewDigitTrie[uint32](4, 0)
	require.NoError(t, err)

	trie.InsertString("123", 100)
	ref := trie.RefString("123")
	require.Equal(t, uint32(100), *ref)
	*ref = 5
	require.Equal(t, uint32(5), trie.GetString("123"))
}

func TestDigitTrie_Truncation(t *testing.T) {
	t.Parallel()

	trie, err := NewDigitTrie[uint32](4, 0)
	require.NoError(t, err)

	require.Equal(t, trie.Index([]byte("1234")), trie.Index([]byte("12345")))
	trie.InsertString("12345", 9)
	require.Equal(t, uint32(9), trie.GetString("1234"))
}

func TestDigitTrie_NulTerminated(t *testing.T) {
	t.Parallel()

	trie, err := NewDigitTrie[string](4, "none")
	require.NoError(t, err)

	trie.InsertString("12\x0099", "twelve")
	require.Equal(t, "twelve", trie.GetString("12"))
	require.Equal(t, "none", trie.GetString("1299"))
	require.Panics(t, func() { trie.GetString("\x00") })
}
