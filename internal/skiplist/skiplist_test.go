package skiplist_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GopeshSingal/gofast-server/internal/skiplist"
)

func TestInsertOrdering(t *testing.T) {
	sl := skiplist.New()
	sl.Insert(3, []byte("c"))
	sl.Insert(1, []byte("a"))
	sl.Insert(2, []byte("b"))
	sl.Insert(2, []byte("aa"))

	all := sl.All()
	require.True(t, sort.SliceIsSorted(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score < all[j].Score
		}
		return string(all[i].Member) < string(all[j].Member)
	}))
	require.Len(t, all, 4)
}

func TestRankMatchesIteration(t *testing.T) {
	sl := skiplist.New()
	members := []struct {
		score  float64
		member string
	}{
		{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"},
	}
	for _, m := range members {
		sl.Insert(m.score, []byte(m.member))
	}
	all := sl.All()
	for i, e := range all {
		rank, ok := sl.Rank(e.Member)
		require.True(t, ok)
		require.Equal(t, i, rank)
	}
}

func TestRangeByScore(t *testing.T) {
	sl := skiplist.New()
	sl.Insert(1, []byte("a"))
	sl.Insert(2, []byte("b"))
	sl.Insert(3, []byte("c"))

	got := sl.RangeByScore(2, 3)
	require.Len(t, got, 2)
	require.Equal(t, "b", string(got[0].Member))
	require.Equal(t, "c", string(got[1].Member))
}

func TestReinsertUpdatesScoreNotCardinality(t *testing.T) {
	sl := skiplist.New()
	sl.Insert(1, []byte("a"))
	sl.Insert(2, []byte("a"))
	require.Equal(t, 1, sl.Len())
	score, ok := sl.GetScore([]byte("a"))
	require.True(t, ok)
	require.Equal(t, 2.0, score)
}

func TestRemoveMember(t *testing.T) {
	sl := skiplist.New()
	sl.Insert(1, []byte("a"))
	sl.Insert(2, []byte("b"))
	require.True(t, sl.RemoveMember([]byte("a")))
	require.False(t, sl.RemoveMember([]byte("a")))
	require.Equal(t, 1, sl.Len())
}

func TestRangeByRank(t *testing.T) {
	sl := skiplist.New()
	sl.Insert(1, []byte("a"))
	sl.Insert(2, []byte("b"))
	sl.Insert(3, []byte("c"))

	got := sl.RangeByRank(0, -1+3)
	require.Len(t, got, 3)

	got = sl.RangeByRank(1, 1)
	require.Len(t, got, 1)
	require.Equal(t, "b", string(got[0].Member))
}
