package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"isolation/agent"
	"isolation/game"

	"github.com/stretchr/testify/require"
)

func TestRemote(t *testing.T) {
	t.Run("remote search agent plays a full game", func(t *testing.T) {
		server := httptest.NewServer(NewHandler(agent.New[game.Action](agent.WithSeed(1))))
		defer server.Close()
		e := NewLocal[game.Action](NewRemote(server.URL), agent.NewRandom[game.Action](2), WithTimeLimit(50*time.Millisecond))

		gameMetric, moveMetrics, err := e.Run(context.Background(), game.NewBoard())

		require.NoError(t, err)
		require.Contains(t, []int{0, 1}, gameMetric.Winner)
		require.Empty(t, gameMetric.Forfeit, "Remote player should answer in time")
		require.NotEmpty(t, moveMetrics)
	})

	t.Run("server without a move reports it", func(t *testing.T) {
		server := httptest.NewServer(NewHandler(&scriptedPlayer{act: silent}))
		defer server.Close()
		remote := NewRemote(server.URL)
		remote.Initialize(0)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := remote.GetAction(ctx, game.NewBoard())

		require.ErrorIs(t, err, ErrRemote)
		require.Contains(t, err.Error(), ErrNoMove.Error())
		require.False(t, remote.Slot().Published())
	})

	t.Run("server receives the seat and the board", func(t *testing.T) {
		type seen struct {
			seat  game.Player
			plies int
		}
		received := make(chan seen, 1)
		spy := &scriptedPlayer{}
		spy.act = func(ctx context.Context, state game.State[game.Action], slot *agent.Slot[game.Action]) error {
			received <- seen{seat: spy.seat, plies: state.PlyCount()}
			slot.Publish(state.Actions()[0])
			return nil
		}
		server := httptest.NewServer(NewHandler(spy))
		defer server.Close()
		board, err := game.NewBoard().Play(game.Action(game.Standard.Index(5, 4)))
		require.NoError(t, err)
		remote := NewRemote(server.URL)
		remote.Initialize(1)

		require.NoError(t, remote.GetAction(context.Background(), board))

		require.Equal(t, seen{seat: 1, plies: 1}, <-received)
		move, ok := remote.Slot().Latest()
		require.True(t, ok)
		require.Equal(t, board.Actions()[0], move)
	})

	t.Run("only boards can be sent", func(t *testing.T) {
		remote := NewRemote("http://127.0.0.1:0")

		err := remote.GetAction(context.Background(), paddedBoard{game.NewBoard()})

		require.ErrorIs(t, err, ErrRemote)
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		remote := NewRemote(server.URL)

		err := remote.GetAction(context.Background(), game.NewBoard())

		require.ErrorIs(t, err, ErrRemote)
	})
}

func TestHandler(t *testing.T) {
	h := NewHandler(agent.NewRandom[game.Action](1))

	t.Run("rejects malformed requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, findMovePath, bytes.NewBufferString("{")))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, findMovePath, nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("answers with a legal move", func(t *testing.T) {
		body, err := json.Marshal(findMoveRequest{State: game.NewBoard(), TimeLimit: 10 * time.Millisecond})
		require.NoError(t, err)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, findMovePath, bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		var res findMoveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		require.True(t, res.Found)
		require.Contains(t, game.NewBoard().Actions(), res.Move)
	})
}

// paddedBoard hides the concrete board type from Remote.
type paddedBoard struct {
	game.Board
}
