// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package dataset loads key/value pairs from tab separated text into a trie.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	flattrie "github.com/absolutelightning/go-flat-trie"
)

// Load inserts every "key<TAB>value" line of r into trie and returns the
// number of pairs inserted. Blank lines and lines starting with '#' are
// skipped. A line without a tab stores the empty string.
func Load(r io.Reader, trie *flattrie.Trie[byte, string]) (int, error) {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	count := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, "\t")
		if !trie.Valid([]byte(key)) {
			return count, fmt.Errorf("line %d: key %q is not in the trie alphabet", lineNumber, key)
		}
		trie.Insert([]byte(key), value)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("line %d: %w", lineNumber+1, err)
	}
	return count, nil
}

// LoadFile is Load reading from the named file.
func LoadFile(path string, trie *flattrie.Trie[byte, string]) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return Load(file, trie)
}
