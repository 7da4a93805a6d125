package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/weaver/internal/words"
)

func dict(t *testing.T, list ...string) *words.Dictionary {
	t.Helper()
	d, err := words.New(list, 4)
	require.NoError(t, err)
	return d
}

// ladderDict has two components: {EAST..WEST, PORE..RUDE} and {ZZZZ, ZZZY}.
func ladderDict(t *testing.T) *words.Dictionary {
	return dict(t,
		"EAST", "WAST", "WEST", "VAST", "VEST", "BEST", "BUST",
		"PORE", "MORE", "MODE", "RODE", "RUDE",
		"ZZZZ", "ZZZY",
	)
}

func TestFindShortestPathScenario(t *testing.T) {
	d := dict(t, "EAST", "WAST", "WEST")
	require.Equal(t, []string{"EAST", "WAST", "WEST"}, FindShortestPath("EAST", "WEST", d))
}

func TestShortestPathEdges(t *testing.T) {
	ix := NewIndex(ladderDict(t))

	t.Run("same word", func(t *testing.T) {
		require.Equal(t, []string{"EAST"}, ix.ShortestPath("EAST", "EAST"))
	})
	t.Run("case folded", func(t *testing.T) {
		require.Equal(t, []string{"EAST", "WAST", "WEST"}, ix.ShortestPath("east", "west"))
	})
	t.Run("target missing", func(t *testing.T) {
		require.Empty(t, ix.ShortestPath("EAST", "LAST"))
	})
	t.Run("start outside dictionary", func(t *testing.T) {
		require.Equal(t, []string{"LAST", "VAST", "VEST"}, ix.ShortestPath("LAST", "VEST"))
	})
	t.Run("disconnected", func(t *testing.T) {
		require.Empty(t, ix.ShortestPath("EAST", "ZZZZ"))
		require.Empty(t, ix.ShortestPath("PORE", "WEST"))
	})
	t.Run("length mismatch", func(t *testing.T) {
		require.Empty(t, ix.ShortestPath("EASTS", "WEST"))
		require.Empty(t, ix.ShortestPath("", "WEST"))
	})
	t.Run("longer ladder", func(t *testing.T) {
		require.Equal(t, []string{"PORE", "MORE", "MODE", "RODE", "RUDE"}, ix.ShortestPath("PORE", "RUDE"))
	})
}

func TestNilDictionaryYieldsNothing(t *testing.T) {
	require.Empty(t, FindShortestPath("EAST", "WEST", nil))
}

// bfsDistance is a brute-force pairwise search used as an oracle.
func bfsDistance(all []string, start, target string) int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return dist[cur]
		}
		for _, w := range all {
			if _, ok := dist[w]; !ok && Adjacent(cur, w) {
				dist[w] = dist[cur] + 1
				queue = append(queue, w)
			}
		}
	}
	return -1
}

func TestShortestPathProperties(t *testing.T) {
	d := ladderDict(t)
	ix := NewIndex(d)
	all := d.Words()

	for _, start := range all {
		for _, target := range all {
			path := ix.ShortestPath(start, target)
			want := bfsDistance(all, start, target)
			if want < 0 {
				require.Empty(t, path, "%s→%s", start, target)
				continue
			}
			require.Len(t, path, want+1, "%s→%s", start, target)
			require.Equal(t, start, path[0])
			require.Equal(t, target, path[len(path)-1])
			for i := 1; i < len(path); i++ {
				require.True(t, Adjacent(path[i-1], path[i]), "%v", path)
				require.True(t, d.Contains(path[i]))
			}
		}
	}
}

func TestAdjacent(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"EAST", "WAST", true},
		{"EAST", "EAST", false},
		{"EAST", "WEST", false},
		{"EAST", "EASY", true},
		{"EAST", "EASTS", false},
		{"", "", false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Adjacent(c.a, c.b), "%s/%s", c.a, c.b)
	}
}

func TestNeighbours(t *testing.T) {
	ix := NewIndex(ladderDict(t))
	require.ElementsMatch(t, []string{"WAST", "VAST"}, ix.Neighbours("east"))
	require.ElementsMatch(t, []string{"ZZZY"}, ix.Neighbours("ZZZZ"))
}
