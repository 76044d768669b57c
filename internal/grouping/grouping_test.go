package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id  string
	key string
	at  int
}

func byKey(i item) string { return i.key }

func atSeconds(i item) time.Time { return time.Unix(int64(i.at), 0) }

// ==========================
// GroupBy
// ==========================

func TestGroupBy_PreservesOrder(t *testing.T) {
	items := []item{{"1", "b", 0}, {"2", "a", 0}, {"3", "b", 0}, {"4", "c", 0}, {"5", "a", 0}}

	g := GroupBy(items, byKey)

	assert.Equal(t, []string{"b", "a", "c"}, g.Keys())
	assert.Equal(t, []item{{"1", "b", 0}, {"3", "b", 0}}, g.Get("b"))
	assert.Equal(t, []item{{"2", "a", 0}, {"5", "a", 0}}, g.Get("a"))
	assert.Equal(t, 3, g.Len())
	assert.Nil(t, g.Get("missing"))
	assert.False(t, g.Has("missing"))
}

func TestGroupBy_Empty(t *testing.T) {
	g := GroupBy([]item(nil), byKey)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Keys())
	assert.Empty(t, g.Map())
}

func TestGroupBy_Idempotent(t *testing.T) {
	items := []item{{"1", "x", 0}, {"2", "y", 0}, {"3", "x", 0}, {"4", "z", 0}, {"5", "y", 0}}

	first := GroupBy(items, byKey)
	second := GroupBy(first.Flatten(), byKey)

	assert.Equal(t, first.Keys(), second.Keys())
	assert.Equal(t, first.Map(), second.Map())
}

func TestGroupBy_NoSharedState(t *testing.T) {
	items := []item{{"1", "x", 0}, {"2", "x", 0}}

	a := GroupBy(items, byKey)
	b := GroupBy(items, byKey)

	bucket := a.Get("x")
	bucket[0].id = "mutated"

	assert.Equal(t, "1", a.Get("x")[0].id)
	assert.Equal(t, "1", b.Get("x")[0].id)
	assert.Equal(t, "1", items[0].id)
}

func TestGroupBy_NormalizedStatus(t *testing.T) {
	statuses := []string{"Screened", "verified", " SCREENED "}
	g := GroupBy(statuses, NormalizeStatus)

	assert.Equal(t, []string{"screened", "verified"}, g.Keys())
	assert.Len(t, g.Get("screened"), 2)
	assert.Len(t, g.Get("verified"), 1)
}

// ==========================
// Latest / ranking
// ==========================

func TestLatest(t *testing.T) {
	tests := []struct {
		name   string
		items  []item
		wantID string
		wantOK bool
	}{
		{"empty", nil, "", false},
		{"single", []item{{"a", "", 5}}, "a", true},
		{"max wins", []item{{"a", "", 1}, {"b", "", 9}, {"c", "", 3}}, "b", true},
		{"tie first wins", []item{{"a", "", 1}, {"b", "", 7}, {"c", "", 7}}, "b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Latest(tt.items, atSeconds)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, got.id)
		})
	}
}

func TestRankByLatest_ThreadScenario(t *testing.T) {
	msgs := []item{{"m1", "t1", 10}, {"m2", "t1", 30}, {"m3", "t2", 20}}

	ranked := RankByLatest(GroupBy(msgs, byKey), atSeconds)

	require.Len(t, ranked, 2)
	assert.Equal(t, "t1", ranked[0].Key)
	assert.Equal(t, "m2", ranked[0].Latest.id)
	assert.Equal(t, "t2", ranked[1].Key)

	detail := SortAscending(ranked[0].Items, atSeconds)
	assert.Equal(t, []int{10, 30}, []int{detail[0].at, detail[1].at})
}

func TestRankByLatest_StableOnTies(t *testing.T) {
	msgs := []item{{"m1", "b", 5}, {"m2", "a", 5}, {"m3", "c", 9}}
	ranked := RankByLatest(GroupBy(msgs, byKey), atSeconds)

	keys := []string{ranked[0].Key, ranked[1].Key, ranked[2].Key}
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}

func TestSortAscending_DoesNotMutate(t *testing.T) {
	in := []item{{"x", "", 3}, {"y", "", 1}, {"z", "", 1}}
	out := SortAscending(in, atSeconds)

	assert.Equal(t, []string{"y", "z", "x"}, []string{out[0].id, out[1].id, out[2].id})
	assert.Equal(t, "x", in[0].id)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00.123Z", time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC)},
		{"2024-05-01T10:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"not a date", MinTime},
		{"", MinTime},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseTimestamp(tt.in)), "got %v", ParseTimestamp(tt.in))
		})
	}
}

func TestLatest_UnparseableSortsFirstToLose(t *testing.T) {
	ts := func(s string) time.Time { return ParseTimestamp(s) }
	got, ok := Latest([]string{"garbage", "2024-01-01T00:00:00Z"}, ts)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T00:00:00Z", got)
}
