// FILE: internal/server/core/state.go
package core

import "chessrules/internal/rules"

type State int

const (
	StateOngoing State = iota
	StateCheck         // side to move is in check but has a way out
	StateWhiteWins
	StateBlackWins
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StateCheck:
		return "check"
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateStalemate:
		return "stalemate"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether no further moves are accepted
func (s State) IsOver() bool {
	return s == StateWhiteWins || s == StateBlackWins || s == StateStalemate
}

// WinFor is the finished state in which winner has won
func WinFor(winner Color) State {
	if winner == ColorWhite {
		return StateWhiteWins
	}
	return StateBlackWins
}

// StateFromStatus maps an engine status onto the session state. toMove is
// the side whose turn it is in the evaluated position.
func StateFromStatus(status rules.Status, toMove Color) State {
	switch status {
	case rules.StatusCheckmate:
		return WinFor(OppositeColor(toMove))
	case rules.StatusStalemate:
		return StateStalemate
	case rules.StatusCheck:
		return StateCheck
	default:
		return StateOngoing
	}
}
