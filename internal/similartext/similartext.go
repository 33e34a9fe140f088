// Copyright 2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package similartext suggests close matches for a misspelled name using
// Levenshtein distance.
package similartext

import (
	"fmt"
	"reflect"
	"strings"
)

// DistanceForStrings returns the edit distance between source and target.
//
// It has a runtime proportional to len(source) * len(target) and memory use
// proportional to len(target).
func DistanceForStrings(source, target []rune) int {
	height := len(source) + 1
	width := len(target) + 1

	prevRow := make([]int, width)
	curRow := make([]int, width)
	for j := 0; j < width; j++ {
		prevRow[j] = j
	}

	for i := 1; i < height; i++ {
		curRow[0] = i
		for j := 1; j < width; j++ {
			del := prevRow[j] + 1
			ins := curRow[j-1] + 1
			sub := prevRow[j-1]
			if source[i-1] != target[j-1] {
				sub++
			}
			curRow[j] = min(del, min(ins, sub))
		}
		prevRow, curRow = curRow, prevRow
	}

	return prevRow[width-1]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// maxDistanceIgnored is the edit distance above which a name is not
// considered a suggestion.
const maxDistanceIgnored = 3

// Find returns a suggestion string with the name(s) in names closest to the
// given name, or the empty string when nothing is close enough.
func Find(names []string, name string) string {
	if len(name) == 0 {
		return ""
	}

	minDistance := -1
	var matches []string
	for _, n := range names {
		dist := DistanceForStrings([]rune(strings.ToLower(n)), []rune(strings.ToLower(name)))
		if dist >= maxDistanceIgnored {
			continue
		}
		if minDistance == -1 || dist < minDistance {
			minDistance = dist
			matches = []string{n}
		} else if dist == minDistance {
			matches = append(matches, n)
		}
	}

	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(", maybe you mean %s?", strings.Join(matches, " or "))
}

// FindFromMap does the same as Find but taking a map instead of a string
// array as first argument.
func FindFromMap(names interface{}, name string) string {
	rv := reflect.ValueOf(names)
	if rv.Kind() != reflect.Map {
		panic("implementation error: a map was expected")
	}
	var namesList []string
	for _, k := range rv.MapKeys() {
		namesList = append(namesList, k.String())
	}
	return Find(namesList, name)
}
