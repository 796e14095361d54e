// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	flattrie "github.com/absolutelightning/go-flat-trie"
)

func newTrie(t *testing.T) *flattrie.Trie[byte, string] {
	trie, err := flattrie.NewWithAddressing[byte, string](flattrie.CharDigits, 4, "", flattrie.Positional)
	require.NoError(t, err)
	return trie
}

func TestLoad(t *testing.T) {
	t.Parallel()

	trie := newTrie(t)
	input := "# area codes\n1\tone\n12\ttwelve\n\n1234\tlast\n9\n"
	n, err := Load(strings.NewReader(input), trie)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	require.Equal(t, "one", trie.Get([]byte("1")))
	require.Equal(t, "twelve", trie.Get([]byte("12")))
	require.Equal(t, "last", trie.Get([]byte("1234")))
	require.Equal(t, "", trie.Get([]byte("9")))
	require.Equal(t, "", trie.Get([]byte("123")))
}

func TestLoad_BadKey(t *testing.T) {
	t.Parallel()

	trie := newTrie(t)
	n, err := Load(strings.NewReader("1\tone\nx2\ttwo\n"), trie)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
	require.Equal(t, 1, n)

	_, err = Load(strings.NewReader("\tempty\n"), trie)
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.tsv")
	require.NoError(t, os.WriteFile(path, []byte("42\tanswer\n"), 0o600))

	trie := newTrie(t)
	n, err := LoadFile(path, trie)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "answer", trie.Get([]byte("42")))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.tsv"), trie)
	require.ErrorIs(t, err, os.ErrNotExist)
}
