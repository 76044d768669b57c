// Package grouping buckets flat lists by key while preserving input order, and
// ranks buckets by their most recent item.
package grouping

import (
	"sort"
	"strings"
	"time"
)

// Groups is an ordered key -> bucket mapping. Keys appear in the order they were
// first seen in the input.
type Groups[K comparable, T any] struct {
	keys    []K
	buckets map[K][]T
}

// GroupBy buckets items by key. Every call builds fresh buckets; nothing is shared
// with the input slice or with earlier results.
func GroupBy[T any, K comparable](items []T, key func(T) K) *Groups[K, T] {
	g := &Groups[K, T]{buckets: make(map[K][]T)}
	for _, item := range items {
		k := key(item)
		if _, ok := g.buckets[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.buckets[k] = append(g.buckets[k], item)
	}
	return g
}

// Keys returns a copy of the keys in discovery order.
func (g *Groups[K, T]) Keys() []K {
	out := make([]K, len(g.keys))
	copy(out, g.keys)
	return out
}

func (g *Groups[K, T]) Len() int { return len(g.keys) }

// Get returns a copy of the bucket for k, or nil when k was never seen.
func (g *Groups[K, T]) Get(k K) []T {
	b, ok := g.buckets[k]
	if !ok {
		return nil
	}
	out := make([]T, len(b))
	copy(out, b)
	return out
}

func (g *Groups[K, T]) Has(k K) bool {
	_, ok := g.buckets[k]
	return ok
}

// Each calls fn for every bucket in key order.
func (g *Groups[K, T]) Each(fn func(k K, items []T)) {
	for _, k := range g.keys {
		fn(k, g.Get(k))
	}
}

// Map returns a fresh map copy of the buckets.
func (g *Groups[K, T]) Map() map[K][]T {
	out := make(map[K][]T, len(g.keys))
	for _, k := range g.keys {
		out[k] = g.Get(k)
	}
	return out
}

// Flatten concatenates the buckets in key order.
func (g *Groups[K, T]) Flatten() []T {
	var out []T
	for _, k := range g.keys {
		out = append(out, g.buckets[k]...)
	}
	return out
}

// NormalizeStatus is the single status normalization applied wherever statuses
// are compared or grouped.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MinTime is what unparseable timestamps sort as.
var MinTime = time.Time{}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParseTimestamp never fails: input no layout accepts yields MinTime.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return MinTime
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return MinTime
}

// Latest returns the item with the greatest timestamp. On ties the earliest item
// in the input wins. ok is false for an empty input.
func Latest[T any](items []T, ts func(T) time.Time) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}
	best = items[0]
	bestTS := ts(best)
	for _, item := range items[1:] {
		if t := ts(item); t.After(bestTS) {
			best, bestTS = item, t
		}
	}
	return best, true
}

// Ranked is one bucket with its latest item.
type Ranked[K comparable, T any] struct {
	Key      K
	Items    []T
	Latest   T
	LatestAt time.Time
}

// RankByLatest orders buckets by their latest item, newest first. Buckets whose
// latest items tie keep discovery order.
func RankByLatest[K comparable, T any](g *Groups[K, T], ts func(T) time.Time) []Ranked[K, T] {
	out := make([]Ranked[K, T], 0, g.Len())
	for _, k := range g.keys {
		items := g.Get(k)
		latest, _ := Latest(items, ts)
		out = append(out, Ranked[K, T]{Key: k, Items: items, Latest: latest, LatestAt: ts(latest)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LatestAt.After(out[j].LatestAt)
	})
	return out
}

// SortAscending returns a copy of items ordered oldest first. Equal timestamps
// keep input order.
func SortAscending[T any](items []T, ts func(T) time.Time) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return ts(out[i]).Before(ts(out[j]))
	})
	return out
}
