package rules

import "time"

// Mood is the face the presentation layer shows next to the score.
type Mood string

// Moods.
const (
	MoodNormal Mood = "normal"
	MoodDead   Mood = "dead"
	MoodTroll  Mood = "troll"
	MoodScared Mood = "scared"
	MoodDizzy  Mood = "dizzy"
	MoodCool   Mood = "cool"
)

// Messages shown to the player.
const (
	MessageRush             = "WAIT NO!"
	MessageDodge            = "TOO SLOW!"
	MessageTrapSpawned      = "TRAP SPAWNED ON APPLE"
	MessageCrushed          = "CRUSHED BY BLOCKER!"
	MessageSmashed          = "BLOCKER SMASH!"
	MessageBonk             = "BONK! BLOCKER"
	MessageWall             = "SPLAT!"
	MessageSelf             = "OUROBOROS!"
	MessageBrainDamage      = "BRAIN DAMAGE!"
	MessageControlsRestored = "CONTROLS RESTORED"
)

// flavor holds presentation-only state. Nothing in the simulation reads it.
type flavor struct {
	mood         Mood
	message      string
	messageUntil int64
	shakeUntil   int64
}

// turnsFor converts a wall clock duration into a number of ticks, rounding up.
func turnsFor(d time.Duration) int64 {
	n := int64(d / TickPeriod)
	if d%TickPeriod != 0 {
		n++
	}
	return n
}

func (f *flavor) say(turn int64, msg string, d time.Duration) {
	f.message = msg
	f.messageUntil = turn + turnsFor(d)
}

func (f *flavor) shake(turn int64) {
	f.shakeUntil = turn + turnsFor(ShakeDuration)
}

func (f *flavor) shaking(turn int64) bool {
	return turn < f.shakeUntil
}

// expire clears the message once its turn has come.
func (f *flavor) expire(turn int64) {
	if f.message != "" && turn >= f.messageUntil {
		f.message = ""
	}
}
