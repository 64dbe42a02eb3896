package searcher

import "github.com/samber/lo"

// killerSlots is the number of killer moves kept per ply.
const killerSlots = 2

type killers[M comparable] struct {
	moves [killerSlots]M
	n     int
}

// KillerTable remembers, per ply, the moves that most recently caused a beta
// cutoff, most recent first. Plies outside [0, MaxPly) are ignored.
type KillerTable[M comparable] struct {
	plies [MaxPly]killers[M]
}

func NewKillerTable[M comparable]() *KillerTable[M] {
	return &KillerTable[M]{}
}

// Add moves m to the front of the ply's killers, evicting the oldest killer
// when the ply is full.
func (k *KillerTable[M]) Add(ply int, m M) {
	if ply < 0 || ply >= MaxPly {
		return
	}
	s := &k.plies[ply]
	i := lo.IndexOf(s.moves[:s.n], m)
	if i < 0 {
		if s.n < killerSlots {
			s.n++
		}
		i = s.n - 1
	}
	copy(s.moves[1:i+1], s.moves[:i])
	s.moves[0] = m
}

// Killers returns a copy of the ply's killers, most recent first.
func (k *KillerTable[M]) Killers(ply int) []M {
	if ply < 0 || ply >= MaxPly {
		return nil
	}
	s := k.plies[ply]
	return append([]M(nil), s.moves[:s.n]...)
}

// IsKiller reports whether m is stored for ply.
func (k *KillerTable[M]) IsKiller(ply int, m M) bool {
	if ply < 0 || ply >= MaxPly {
		return false
	}
	s := &k.plies[ply]
	return lo.Contains(s.moves[:s.n], m)
}

// Order returns actions with the ply's legal killers moved to the front.
// The remaining actions keep their order. actions is never modified.
func (k *KillerTable[M]) Order(ply int, actions []M) []M {
	legal := lo.Filter(k.Killers(ply), func(m M, _ int) bool {
		return lo.Contains(actions, m)
	})
	if len(legal) == 0 {
		return actions
	}
	ordered := make([]M, 0, len(actions))
	ordered = append(ordered, legal...)
	return append(ordered, lo.Without(actions, legal...)...)
}

func (k *KillerTable[M]) Clear() {
	k.plies = [MaxPly]killers[M]{}
}
