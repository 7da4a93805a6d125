// Package pathfinder computes shortest word ladders over a dictionary.
//
// Two words are adjacent when they have the same length and differ in
// exactly one position. Neighbour lookup goes through a wildcard pattern
// index: every dictionary word is filed under each of its "one letter
// blanked" keys (EAST → *AST, E*ST, EA*T, EAS*), so the neighbours of a
// word are the union of its buckets.
package pathfinder

import (
	"slices"

	"github.com/samber/lo"

	"github.com/robalobadob/weaver/internal/words"
)

const wildcard = '*'

// Index is a wildcard pattern index over one dictionary.
// It is immutable after construction and safe to share.
type Index struct {
	dict    *words.Dictionary
	buckets map[string][]string
}

// NewIndex builds the pattern index for dict.
func NewIndex(dict *words.Dictionary) *Index {
	ix := &Index{dict: dict, buckets: make(map[string][]string)}
	for _, w := range dict.Words() {
		for i := range len(w) {
			k := pattern(w, i)
			ix.buckets[k] = append(ix.buckets[k], w)
		}
	}
	return ix
}

// Dictionary returns the dictionary the index was built over.
func (ix *Index) Dictionary() *words.Dictionary { return ix.dict }

// FindShortestPath builds a throwaway index and searches it.
// Use an Index directly when searching the same dictionary repeatedly.
func FindShortestPath(start, target string, dict *words.Dictionary) []string {
	return NewIndex(dict).ShortestPath(start, target)
}

// ShortestPath returns a shortest ladder from start to target, both ends
// included, or nil when none exists.
//
// target must be in the dictionary; start need not be. start == target
// yields the single-word path.
func (ix *Index) ShortestPath(start, target string) []string {
	start, target = words.Normalize(start), words.Normalize(target)
	if start == "" || !ix.dict.Contains(target) || len(start) != len(target) {
		return nil
	}
	if start == target {
		return []string{start}
	}

	parent := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range ix.neighbours(cur, parent) {
			parent[next] = cur
			if next == target {
				return unwind(parent, target)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// Neighbours lists the dictionary words adjacent to w.
func (ix *Index) Neighbours(w string) []string {
	return ix.neighbours(words.Normalize(w), nil)
}

// neighbours returns the unvisited words sharing a bucket with w.
// A word can sit in only one of w's buckets, so no deduplication is needed.
func (ix *Index) neighbours(w string, visited map[string]string) []string {
	var out []string
	for i := range len(w) {
		out = append(out, lo.Filter(ix.buckets[pattern(w, i)], func(c string, _ int) bool {
			_, seen := visited[c]
			return !seen && c != w
		})...)
	}
	return out
}

// unwind follows parent pointers back from target to the root.
func unwind(parent map[string]string, target string) []string {
	var path []string
	for w := target; w != ""; w = parent[w] {
		path = append(path, w)
	}
	slices.Reverse(path)
	return path
}

// Adjacent reports whether a and b have equal length and differ in
// exactly one position.
func Adjacent(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	diff := 0
	for i := range len(a) {
		if a[i] != b[i] {
			diff++
			if diff > 1 {
				return false
			}
		}
	}
	return diff == 1
}

// pattern blanks position i of w.
func pattern(w string, i int) string {
	b := []byte(w)
	b[i] = wildcard
	return string(b)
}
