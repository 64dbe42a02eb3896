package searcher

import "isolation/game"

type mockMove int

// mockNode is a hand built game tree node. Terminal nodes score utility,
// others score value when evaluated at the depth limit.
type mockNode struct {
	name     string
	children []*mockNode
	terminal bool
	utility  float64
	value    float64
}

type mockState struct {
	node  *mockNode
	ply   int
	evals *[]string // Names of evaluated nodes
}

func newMockState(root *mockNode) mockState {
	return mockState{node: root, ply: OpeningPlies, evals: &[]string{}}
}

func (m mockState) Actions() []mockMove {
	moves := make([]mockMove, len(m.node.children))
	for i := range moves {
		moves[i] = mockMove(i)
	}
	return moves
}

func (m mockState) Result(move mockMove) game.State[mockMove] {
	return mockState{node: m.node.children[move], ply: m.ply + 1, evals: m.evals}
}

func (m mockState) TerminalTest() bool {
	return m.node.terminal
}

func (m mockState) Utility(player game.Player) float64 {
	return m.node.utility
}

func (m mockState) Liberties(loc int) []int {
	return nil
}

func (m mockState) Loc(player game.Player) int {
	return game.NoLoc
}

func (m mockState) PlyCount() int {
	return m.ply
}

func (m mockState) Player() game.Player {
	return game.Player(m.ply % 2)
}

func mockEvaluate(s game.Positional) float64 {
	m := s.(mockState)
	*m.evals = append(*m.evals, m.node.name)
	return m.node.value
}

func leaf(name string, utility float64) *mockNode {
	return &mockNode{name: name, terminal: true, utility: utility}
}

func inner(name string, value float64, children ...*mockNode) *mockNode {
	return &mockNode{name: name, value: value, children: children}
}

// threePlyTree has terminal leaves three plies below the root. Depth 1
// prefers the second move, the exact value 5 comes from the first.
func threePlyTree() *mockNode {
	return inner("R", 0,
		inner("A", 0,
			inner("AA", 2, leaf("AAA", 3), leaf("AAB", 5)),
			inner("AB", 8, leaf("ABA", 2), leaf("ABB", 9)),
		),
		inner("B", 1,
			inner("BA", 3, leaf("BAA", 1), leaf("BAB", 4)),
			inner("BB", 1, leaf("BBA", 6), leaf("BBB", 7)),
		),
	)
}
