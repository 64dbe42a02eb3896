package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"isolation/agent"
	"isolation/game"

	"github.com/rs/zerolog/log"
)

const findMovePath = "/findmove"

// minRemoteLimit is the least time a remote agent is given to decide.
const minRemoteLimit = time.Millisecond

var ErrRemote = errors.New("remote agent failed")

type findMoveRequest struct {
	Seat      game.Player   `json:"seat"`
	State     game.Board    `json:"state"`
	TimeLimit time.Duration `json:"time_limit"`
}

type findMoveResponse struct {
	Move  game.Action `json:"move"`
	Found bool        `json:"found"`
	Error string      `json:"error,omitempty"`
}

// Remote is a Player whose decisions are made by an agent server reached over
// HTTP. The server is asked to answer before the local deadline.
type Remote struct {
	url    string
	client *http.Client
	seat   game.Player
	slot   agent.Slot[game.Action]
}

func NewRemote(url string) *Remote {
	return &Remote{url: url, client: &http.Client{}}
}

func (r *Remote) Initialize(player game.Player) {
	r.seat = player
}

func (r *Remote) Slot() *agent.Slot[game.Action] {
	return &r.slot
}

func (r *Remote) GetAction(ctx context.Context, state game.State[game.Action]) error {
	r.slot.Reset()
	board, ok := state.(game.Board)
	if !ok {
		return fmt.Errorf("%w: cannot send state of type %T", ErrRemote, state)
	}

	// Leave a tenth of the remaining time for the round trip
	limit := DefaultTimeLimit
	if deadline, ok := ctx.Deadline(); ok {
		limit = max(time.Until(deadline)*9/10, minRemoteLimit)
	}
	body, err := json.Marshal(findMoveRequest{Seat: r.seat, State: board, TimeLimit: limit})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+findMovePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, bytes.TrimSpace(out))
	}
	var res findMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrRemote, err)
	}
	if !res.Found {
		return fmt.Errorf("%w: %s", ErrRemote, res.Error)
	}
	r.slot.Publish(res.Move)
	return nil
}

// handler serves decisions of one local player. Requests are served one at a
// time since a player holds per game state.
type handler struct {
	mu     sync.Mutex
	player Player[game.Action]
	seat   game.Player
	ready  bool
}

// NewHandler serves the decisions of player to Remote players.
func NewHandler(player Player[game.Action]) http.Handler {
	h := &handler{player: player}
	mux := http.NewServeMux()
	mux.HandleFunc(findMovePath, h.findMove)
	return mux
}

func (h *handler) findMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.TimeLimit <= 0 {
		req.TimeLimit = DefaultTimeLimit
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.ready || h.seat != req.Seat {
		h.player.Initialize(req.Seat)
		h.seat, h.ready = req.Seat, true
	}

	ctx, cancel := context.WithTimeout(r.Context(), req.TimeLimit)
	defer cancel()
	err := h.player.GetAction(ctx, req.State)
	move, found := h.player.Slot().Latest()

	res := findMoveResponse{Move: move, Found: found}
	if !found {
		res.Error = ErrNoMove.Error()
		if err != nil {
			res.Error = err.Error()
		}
	}
	if err != nil && found {
		log.Debug().Err(err).Msgf("serving move %d after error", move)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "failed to encode move: "+err.Error(), http.StatusInternalServerError)
	}
}
