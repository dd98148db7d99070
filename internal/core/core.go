// FILE: internal/core/core.go
package core

// GameKind identifies one of the supported board games
type GameKind string

const (
	GameTicTacToe GameKind = "tictactoe"
	GameConnect4  GameKind = "connect4"
	GameChess     GameKind = "chess"
)

// Games lists every supported game in display order
var Games = []GameKind{GameTicTacToe, GameConnect4, GameChess}

func (g GameKind) Valid() bool {
	switch g {
	case GameTicTacToe, GameConnect4, GameChess:
		return true
	}
	return false
}

func (g GameKind) String() string {
	return string(g)
}

// Difficulty bounds shared by all games
const (
	MinLevel = 1
	MaxLevel = 5
)

// ClampLevel forces a level into [MinLevel, MaxLevel]
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Side is the owner of a mark or the player to move.
// The human always plays SideFirst (X, red, white), the computer SideSecond.
type Side byte

const (
	SideNone Side = iota
	SideFirst
	SideSecond
)

const (
	HumanSide    = SideFirst
	ComputerSide = SideSecond
)

func (s Side) Opponent() Side {
	switch s {
	case SideFirst:
		return SideSecond
	case SideSecond:
		return SideFirst
	default:
		return SideNone
	}
}

func (s Side) String() string {
	switch s {
	case SideFirst:
		return "first"
	case SideSecond:
		return "second"
	default:
		return "-"
	}
}

// Status is the terminal classification of a position
type Status int

const (
	StatusOngoing Status = iota
	StatusWin
	StatusDraw
)

// Outcome is what a board adapter reports for a position
type Outcome struct {
	Status Status
	Winner Side // only set for StatusWin
}

func Ongoing() Outcome {
	return Outcome{Status: StatusOngoing}
}

func Win(side Side) Outcome {
	return Outcome{Status: StatusWin, Winner: side}
}

func Draw() Outcome {
	return Outcome{Status: StatusDraw}
}

func (o Outcome) Terminal() bool {
	return o.Status != StatusOngoing
}

// State is the lifecycle state of a game session
type State int

const (
	StateOngoing State = iota
	StatePending       // Computer is choosing a move
	StateFirstWins
	StateSecondWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StateOngoing:
		return "ongoing"
	case StatePending:
		return "pending"
	case StateFirstWins:
		return "first_wins"
	case StateSecondWins:
		return "second_wins"
	case StateDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Finished reports whether the game has ended
func (s State) Finished() bool {
	return s == StateFirstWins || s == StateSecondWins || s == StateDraw
}

// StateFromOutcome maps a position outcome to a session state
func StateFromOutcome(o Outcome) State {
	switch o.Status {
	case StatusWin:
		if o.Winner == SideFirst {
			return StateFirstWins
		}
		return StateSecondWins
	case StatusDraw:
		return StateDraw
	default:
		return StateOngoing
	}
}
