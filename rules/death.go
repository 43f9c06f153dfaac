package rules

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// checkForDeath looks at where the head is about to go and returns the cause
// of death, or "" if the move is safe. Checks run in order: wall, armed
// blocker, own body.
func checkForDeath(newHead Point, snake Snake, blocker *Blocker) string {
	if deathByOutOfBounds(newHead) {
		return DeathCauseWallCollision
	}
	if deathByBlocker(newHead, blocker) {
		return DeathCauseBlockerCollision
	}
	if deathByBodyCollision(newHead, snake) {
		return DeathCauseSelfCollision
	}
	return ""
}

func deathByOutOfBounds(head Point) bool {
	return !head.InBounds()
}

// An unarmed blocker is harmless, the snake can eat the food under it.
func deathByBlocker(head Point, blocker *Blocker) bool {
	return blocker != nil && blocker.Active && head.Equal(blocker.Position)
}

func deathByBodyCollision(head Point, snake Snake) bool {
	return snake.Contains(head)
}

// collide ends the game for a cause returned by checkForDeath.
func (e *Engine) collide(cause string) {
	switch cause {
	case DeathCauseWallCollision:
		e.die(cause, MoodDead, MessageWall, time.Second)
	case DeathCauseBlockerCollision:
		e.die(cause, MoodDizzy, MessageBonk, time.Second)
	default:
		e.die(cause, MoodDead, MessageSelf, time.Second)
	}
}

func (e *Engine) die(cause string, mood Mood, msg string, d time.Duration) {
	e.gameOver = true
	e.death = &Death{Turn: e.turn, Cause: cause}
	e.flavor.mood = mood
	e.flavor.say(e.turn, msg, d)
	e.flavor.shake(e.turn)

	log.WithFields(log.Fields{
		"turn":  e.turn,
		"cause": cause,
		"score": e.score,
		"head":  e.snake.Head(),
	}).Info("game over")
}
