package rules

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Blocker is the path blocker trap. It spawns unarmed on the food, arms after
// BlockerArmDelay by aiming at the snake's head and then travels in a straight
// line until it leaves the board, hits the snake or times out.
type Blocker struct {
	ID        uint64        `json:"id"`
	Position  Point         `json:"position"`
	Active    bool          `json:"active"`
	Velocity  Direction     `json:"velocity"`
	SpawnedAt time.Duration `json:"spawnedAt"`
	ArmedAt   time.Duration `json:"armedAt,omitempty"`
}

// Reasons a blocker leaves the board, used for logging.
const (
	blockerGoneBounds  = "out-of-bounds"
	blockerGoneEvaded  = "evaded"
	blockerGoneExpired = "expired"
)

// maybeSpawnBlocker rolls for a new blocker when the food lies straight ahead
// of the snake within the spawn window.
func (e *Engine) maybeSpawnBlocker(head Point) {
	if e.blocker != nil || !e.foodAhead(head) {
		return
	}
	dist := head.Distance(e.food.Position)
	if dist < BlockerSpawnMinDistance || dist > BlockerSpawnMaxDistance {
		return
	}
	if e.rng.Float64() >= BlockerSpawnChance {
		return
	}

	e.nextBlockerID++
	now := e.now()
	e.blocker = &Blocker{
		ID:        e.nextBlockerID,
		Position:  e.food.Position,
		SpawnedAt: now,
	}
	e.armEvent = e.schedule.add(now+BlockerArmDelay, eventArmBlocker, e.blocker.ID)

	e.flavor.say(e.turn, MessageTrapSpawned, 700*time.Millisecond)
	e.flavor.shake(e.turn)

	log.WithFields(log.Fields{
		"turn":     e.turn,
		"blocker":  e.blocker.ID,
		"position": e.blocker.Position,
	}).Debug("blocker spawned")
}

// foodAhead reports whether the food sits on the line the snake is heading
// along, in front of the head.
func (e *Engine) foodAhead(head Point) bool {
	dx := e.food.Position.X - head.X
	dy := e.food.Position.Y - head.Y
	switch {
	case e.direction.Y != 0 && dx == 0:
		return sign(dy) == e.direction.Y
	case e.direction.X != 0 && dy == 0:
		return sign(dx) == e.direction.X
	}
	return false
}

// armBlocker aims the blocker at wherever the head is right now.
func (e *Engine) armBlocker(id uint64) {
	b := e.blocker
	if b == nil || b.ID != id || b.Active {
		return
	}
	e.armEvent = nil

	head := e.snake.Head()
	velocity := towards(b.Position, head)
	if velocity.IsZero() {
		velocity = e.direction
	}

	now := e.now()
	b.Active = true
	b.Velocity = velocity
	b.ArmedAt = now
	e.expireEvent = e.schedule.add(now+BlockerLifetime, eventExpireBlocker, b.ID)

	log.WithFields(log.Fields{
		"turn":     e.turn,
		"blocker":  b.ID,
		"position": b.Position,
		"velocity": velocity,
		"target":   head,
	}).Debug("blocker armed")
}

func (e *Engine) expireBlocker(id uint64) {
	if e.blocker == nil || e.blocker.ID != id {
		return
	}
	e.expireEvent = nil
	e.removeBlocker(blockerGoneExpired)
}

// moveBlocker advances an armed blocker one cell. It returns true when the
// blocker crushed the snake and the game is over.
func (e *Engine) moveBlocker() bool {
	b := e.blocker
	next := b.Position.Add(b.Velocity)
	if !next.InBounds() {
		e.removeBlocker(blockerGoneBounds)
		return false
	}
	b.Position = next

	switch {
	case next.Equal(e.snake.Head()):
		e.die(DeathCauseBlockerCrush, MoodDizzy, MessageCrushed, 1200*time.Millisecond)
		return true
	case e.snake.Contains(next):
		e.die(DeathCauseBlockerCrush, MoodDizzy, MessageSmashed, 1200*time.Millisecond)
		return true
	case next.Equal(e.food.Position):
		log.WithFields(log.Fields{
			"turn":    e.turn,
			"blocker": b.ID,
			"food":    e.food.Position,
		}).Debug("blocker destroyed food")
		e.spawnFood()
	}
	return false
}

// checkEvasion drops an unarmed blocker the snake has left far behind.
func (e *Engine) checkEvasion(head Point) {
	b := e.blocker
	if b == nil || b.Active {
		return
	}
	if head.Distance(b.Position) > BlockerEvadeDistance {
		e.removeBlocker(blockerGoneEvaded)
	}
}

// removeBlocker clears the blocker and any events still pending for it.
func (e *Engine) removeBlocker(reason string) {
	e.schedule.cancel(e.armEvent)
	e.schedule.cancel(e.expireEvent)
	e.armEvent, e.expireEvent = nil, nil

	if e.blocker != nil {
		log.WithFields(log.Fields{
			"turn":    e.turn,
			"blocker": e.blocker.ID,
			"reason":  reason,
		}).Debug("blocker removed")
	}
	e.blocker = nil
}
