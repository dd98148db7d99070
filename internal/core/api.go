// FILE: internal/core/api.go
package core

// Request types

type CreateGameRequest struct {
	Game  string `json:"game" validate:"required,oneof=tictactoe connect4 chess"`
	Level int    `json:"level,omitempty" validate:"omitempty,min=1,max=5"` // 0 uses the stored progress level
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=1,max=16"` // cell index, column index, SAN or UCI
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

type SettingsRequest struct {
	Provider string `json:"provider" validate:"required,oneof=gemini openai"`
	APIKey   string `json:"apiKey" validate:"omitempty,max=256"`
}

// Response types

type GameResponse struct {
	GameID   string    `json:"gameId"`
	Game     string    `json:"game"`
	Level    int       `json:"level"`
	Turn     string    `json:"turn"`  // "first" or "second"
	State    string    `json:"state"` // "ongoing", "pending", "first_wins", ...
	Moves    []string  `json:"moves"`
	Notation string    `json:"notation"`
	LastMove *MoveInfo `json:"lastMove,omitempty"`

	Persona   string `json:"persona,omitempty"`   // Chess opponent label
	Thinking  string `json:"thinking,omitempty"`  // Shown while the computer is to move
	InCheck   bool   `json:"inCheck,omitempty"`   // Side to move is in check
	EndReason string `json:"endReason,omitempty"` // e.g. "Checkmate", "Stalemate"
}

type MoveInfo struct {
	Move   string `json:"move"`
	Side   string `json:"side"`
	Source string `json:"source,omitempty"` // "human", "oracle", "search", "tactical", "random"
	Status string `json:"status,omitempty"` // Transient message, e.g. oracle offline
	Score  int    `json:"score,omitempty"`
	Depth  int    `json:"depth,omitempty"`
}

type BoardResponse struct {
	Notation string `json:"notation"`
	Board    string `json:"board"` // ASCII representation
}

type ProgressResponse struct {
	Levels       map[string]int `json:"levels"`
	ChessMatches int            `json:"chessMatches"`
	ChessTier    int            `json:"chessTier"`
	Provider     string         `json:"provider"`
	HasAPIKey    bool           `json:"hasApiKey"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type ChatResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
}
