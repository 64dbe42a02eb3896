package agent

import (
	"context"
	"sync"
	"testing"

	"isolation/game"
	"isolation/searcher"

	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	t.Run("plays legal moves", func(t *testing.T) {
		r := NewRandom[game.Action](11)
		r.Initialize(1)
		b := game.NewBoard()

		for i := 0; i < 50; i++ {
			require.NoError(t, r.GetAction(context.Background(), b))
			move, ok := r.Slot().Latest()
			require.True(t, ok)
			require.Contains(t, b.Actions(), move)
		}
	})

	t.Run("no legal moves", func(t *testing.T) {
		r := NewRandom[string](11)
		err := r.GetAction(context.Background(), scenario{ply: 2})
		require.ErrorIs(t, err, searcher.ErrNoLegalMoves)
		require.False(t, r.Slot().Published())
	})
}

func TestGreedy(t *testing.T) {
	t.Run("maximizes its own liberties", func(t *testing.T) {
		g := NewGreedy[string](nil)
		g.Initialize(0)

		require.NoError(t, g.GetAction(context.Background(), weights))

		move, _ := g.Slot().Latest()
		require.Equal(t, "X", move, "Six liberties should beat four")
	})

	t.Run("takes a win over mobility", func(t *testing.T) {
		s := weights
		s.order = []string{"X", "W"}
		s.children = map[string]scenario{
			"X": weights.children["X"],
			"W": {terminal: true, utility: game.Win},
		}
		g := NewGreedy[string](nil)
		g.Initialize(0)

		require.NoError(t, g.GetAction(context.Background(), s))

		move, _ := g.Slot().Latest()
		require.Equal(t, "W", move)
	})

	t.Run("custom score", func(t *testing.T) {
		g := NewGreedy[string](func(p game.Player) game.Evaluate {
			return game.NewHeuristic(game.Standard, p).Combined
		})
		g.Initialize(0)

		require.NoError(t, g.GetAction(context.Background(), weights))

		move, _ := g.Slot().Latest()
		require.Equal(t, "Y", move)
	})
}

func TestSlot(t *testing.T) {
	t.Run("latest is not consumed", func(t *testing.T) {
		var s Slot[int]
		_, ok := s.Latest()
		require.False(t, ok)

		s.Publish(1)
		s.Publish(2)

		got, ok := s.Latest()
		require.True(t, ok)
		require.Equal(t, 2, got, "Publishing should replace the previous move")
		got, _ = s.Latest()
		require.Equal(t, 2, got, "Reading should not consume the move")

		s.Reset()
		require.False(t, s.Published())
	})

	t.Run("concurrent publish and read", func(t *testing.T) {
		var s Slot[int]
		var wg sync.WaitGroup
		regressed := false
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 1; i <= 1000; i++ {
				s.Publish(i)
			}
		}()
		go func() {
			defer wg.Done()
			last := 0
			for i := 0; i < 1000; i++ {
				if got, ok := s.Latest(); ok {
					regressed = regressed || got < last
					last = got
				}
			}
		}()
		wg.Wait()

		require.False(t, regressed, "Reader should never see an older move")
		got, _ := s.Latest()
		require.Equal(t, 1000, got)
	})
}
