package rules

const (
	// DeathCauseWallCollision is when a snake runs off the board
	DeathCauseWallCollision = "wall-collision"
	// DeathCauseSelfCollision is when a snake runs into its own body
	DeathCauseSelfCollision = "self-collision"
	// DeathCauseBlockerCollision is when a snake runs into an armed blocker
	DeathCauseBlockerCollision = "blocker-collision"
	// DeathCauseBlockerCrush is when an armed blocker runs into the snake
	DeathCauseBlockerCrush = "blocker-crush"
)

// Death records how and when the game ended.
type Death struct {
	Turn  int64  `json:"turn"`
	Cause string `json:"cause"`
}
