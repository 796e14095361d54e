// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package flattrie

import "math/bits"

// Power raises base to exponent. Power(b, 0) is 1 for every b.
func Power(base, exponent int) int {
	result := 1
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}

// TotalSize is the number of slots a trie over an alphabet of s symbols with
// keys of at most l symbols is sized for: s^l.
func TotalSize(s, l int) int {
	return Power(s, l-1) * s
}

// RegionOffsets returns the starting slot of the region for each key length.
// Entry i is where keys of effective length i+1 begin, which is
// s + s^2 + ... + s^i.
func RegionOffsets(s, l int) []int {
	offsets := make([]int, l)
	if l < 2 {
		return offsets
	}
	offsets[1] = s
	for i := 2; i < l; i++ {
		offsets[i] = (offsets[i-1]-offsets[i-2])*s + offsets[i-1]
	}
	return offsets
}

// mulCheck multiplies two non-negative ints, reporting overflow.
func mulCheck(a, b int) (int, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(maxInt) {
		return 0, false
	}
	return int(lo), true
}

func addCheck(a, b int) (int, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

func powerCheck(base, exponent int) (int, bool) {
	result := 1
	for i := 0; i < exponent; i++ {
		var ok bool
		if result, ok = mulCheck(result, base); !ok {
			return 0, false
		}
	}
	return result, true
}

const maxInt = int(^uint(0) >> 1)
