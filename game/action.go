package game

// Action is a move on the Board. Until the mover has been placed it names
// the target cell, afterwards it is a knight offset from the mover's cell.
type Action int

// Knight offsets in the padded encoding. A horizontal step off the board
// always lands on a padding cell, which is never open.
const (
	NNE Action = 2*stride + 1
	ENE Action = stride + 2
	ESE Action = -stride + 2
	SSE Action = -2*stride + 1
	SSW Action = -2*stride - 1
	WSW Action = -stride - 2
	WNW Action = stride - 2
	NNW Action = 2*stride - 1
)

var knightMoves = [...]Action{NNE, ENE, ESE, SSE, SSW, WSW, WNW, NNW}

var knightNames = map[Action]string{
	NNE: "NNE",
	ENE: "ENE",
	ESE: "ESE",
	SSE: "SSE",
	SSW: "SSW",
	WSW: "WSW",
	WNW: "WNW",
	NNW: "NNW",
}
