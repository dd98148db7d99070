// FILE: internal/core/error.go
package core

// Error codes
const (
	ErrGameNotFound        = "GAME_NOT_FOUND"
	ErrInvalidMove         = "INVALID_MOVE"
	ErrNotHumanTurn        = "NOT_HUMAN_TURN"
	ErrTurnPending         = "TURN_PENDING"
	ErrGameOver            = "GAME_OVER"
	ErrRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent      = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest      = "INVALID_REQUEST"
	ErrInternalError       = "INTERNAL_ERROR"
	ErrResourceLimit       = "RESOURCE_LIMIT"
	ErrOracleNotConfigured = "ORACLE_NOT_CONFIGURED"
	ErrOracleUnavailable   = "ORACLE_UNAVAILABLE"
)
