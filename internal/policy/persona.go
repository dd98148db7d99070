// FILE: internal/policy/persona.go
package policy

// Persona is the skill narrative handed to the chess oracle
type Persona struct {
	Tier        int
	Label       string // Shown next to the board
	Instruction string // Prepended to the oracle prompt
	Status      string // Shown while the oracle is thinking
}

// MaxTier is the strongest persona; the tier stops advancing there
const MaxTier = 2

var personas = [MaxTier + 1]Persona{
	{
		Tier:        0,
		Label:       "MATCH TEST (CALIBRATION)",
		Instruction: "You are a beginner/intermediate chess player (Elo 1000). You are testing the opponent. Play a standard opening. Make occasional minor mistakes but generally play valid moves.",
		Status:      "CORTEX (CALIBRATION): analyzing...",
	},
	{
		Tier:        1,
		Label:       "CORTEX LEVEL 1",
		Instruction: "You are a strong intermediate chess player (Elo 1600). Play solid tactical moves. Punish blunders. Do not make simple mistakes.",
		Status:      `CORTEX (LEVEL 1): "Not bad..."`,
	},
	{
		Tier:        2,
		Label:       "CORTEX LEVEL 2 (MAX)",
		Instruction: "You are a Grandmaster chess engine (Elo 2800+). Play the absolute best optimal move. Calculate deep variations. Show no mercy. Win as fast as possible.",
		Status:      `CORTEX (LEVEL 2): "CHECKMATE."`,
	},
}

// Tier converts a completed-match count into a persona tier
func Tier(matches int) int {
	return min(max(matches, 0), MaxTier)
}

func PersonaFor(matches int) Persona {
	return personas[Tier(matches)]
}
