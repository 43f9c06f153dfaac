// Package rules is the troll snake simulation. An Engine owns the whole game
// state and is advanced one step at a time by Tick. Timed behaviour (arming
// and expiring the blocker, the reverse controls countdown, clearing messages)
// is scheduled against a virtual clock of Turn * TickPeriod, so a game is fully
// determined by its random source and the inputs it receives.
//
// An Engine is not safe for concurrent use; see the worker package for a
// real-time driver.
package rules

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Rand is the source of randomness used by the engine. *rand.Rand satisfies
// it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Engine runs a single game.
type Engine struct {
	rng Rand

	turn      int64
	snake     Snake
	food      Food
	direction Direction
	locked    bool
	score     int
	gameOver  bool
	death     *Death

	blocker       *Blocker
	nextBlockerID uint64
	armEvent      *event
	expireEvent   *event

	reverse        bool
	reverseLeft    int
	countdownEvent *event

	schedule schedule
	flavor   flavor
}

// NewEngine creates an engine with a fresh game ready to tick.
func NewEngine(rng Rand) *Engine {
	e := &Engine{rng: rng}
	e.Reset()
	return e
}

// Reset starts a new game, dropping every pending event.
func (e *Engine) Reset() {
	e.schedule.clear()
	e.armEvent, e.expireEvent, e.countdownEvent = nil, nil, nil

	e.turn = 0
	e.snake = Snake{StartPosition}
	e.direction = StartDirection
	e.locked = false
	e.score = 0
	e.gameOver = false
	e.death = nil
	e.blocker = nil
	e.reverse = false
	e.reverseLeft = 0
	e.flavor = flavor{mood: MoodNormal}
	e.spawnFood()
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool { return e.gameOver }

// Turn is the number of ticks since the last reset.
func (e *Engine) Turn() int64 { return e.turn }

// Score is the number of food eaten since the last reset.
func (e *Engine) Score() int { return e.score }

// now is the virtual time of the current turn.
func (e *Engine) now() time.Duration {
	return time.Duration(e.turn) * TickPeriod
}

// Tick runs the game one step. It does nothing once the game is over.
func (e *Engine) Tick() {
	if e.gameOver {
		return
	}
	e.turn++
	e.processEvents()
	e.flavor.expire(e.turn)

	head := e.snake.Head()

	// 1. moving bait; if the food moved the snake hesitates this tick
	if e.food.Type == FoodMoving && e.moveBait(head) {
		return
	}

	// 2. maybe drop a blocker on the food
	e.maybeSpawnBlocker(head)

	// 3. an armed blocker moves before the snake so it can hit it first
	if e.blocker != nil && e.blocker.Active && e.moveBlocker() {
		return
	}

	// 4. & 5. advance the head and check for death
	newHead := head.Add(e.direction)
	if cause := checkForDeath(newHead, e.snake, e.blocker); cause != "" {
		e.collide(cause)
		return
	}

	// 6. move, growing if we ate
	e.snake = e.snake.Move(newHead)
	if newHead.Equal(e.food.Position) {
		e.eat()
	} else {
		e.snake = e.snake.Shrink()
	}

	// 7. drop an unarmed blocker the snake ran away from
	e.checkEvasion(newHead)

	// 8. accept input again
	e.locked = false
}

// SubmitDirection applies a player input. At most one input is accepted per
// tick; inputs are inverted while reverse controls are on. Anything other
// than the four directions, and a turn straight back into the body, is
// ignored. It returns whether the input was accepted.
func (e *Engine) SubmitDirection(d Direction) bool {
	if e.gameOver || e.locked {
		return false
	}
	if e.reverse {
		d = d.Negate()
	}
	if !d.IsUnit() || d.IsOpposite(e.direction) {
		return false
	}
	e.direction = d
	e.locked = true
	return true
}

func (e *Engine) eat() {
	eaten := e.food
	e.score++
	e.flavor.mood = MoodCool

	if eaten.Type == FoodReverse {
		e.startReverse()
	}

	log.WithFields(log.Fields{
		"turn":  e.turn,
		"food":  eaten.Position,
		"type":  eaten.Type,
		"score": e.score,
	}).Debug("snake ate")

	e.spawnFood()
}

// startReverse turns reverse controls on, restarting the countdown if it was
// already running.
func (e *Engine) startReverse() {
	e.schedule.cancel(e.countdownEvent)
	e.reverse = true
	e.reverseLeft = ReverseDuration
	e.countdownEvent = e.schedule.add(e.now()+ReverseCountdownPeriod, eventReverseCountdown, 0)

	e.flavor.say(e.turn, MessageBrainDamage, 2*time.Second)
	e.flavor.shake(e.turn)
}

func (e *Engine) countdownReverse() {
	e.countdownEvent = nil
	if !e.reverse {
		return
	}
	e.reverseLeft--
	if e.reverseLeft > 0 {
		e.countdownEvent = e.schedule.add(e.now()+ReverseCountdownPeriod, eventReverseCountdown, 0)
		return
	}
	e.reverseLeft = 0
	e.reverse = false
	e.flavor.say(e.turn, MessageControlsRestored, time.Second)
}

// processEvents fires every scheduled event due by the current turn.
func (e *Engine) processEvents() {
	now := e.now()
	for ev := e.schedule.popDue(now); ev != nil; ev = e.schedule.popDue(now) {
		switch ev.kind {
		case eventArmBlocker:
			e.armBlocker(ev.blockerID)
		case eventExpireBlocker:
			e.expireBlocker(ev.blockerID)
		case eventReverseCountdown:
			e.countdownReverse()
		}
	}
}
