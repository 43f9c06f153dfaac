package rules

import "time"

// Game is the record kept for a single played game.
type Game struct {
	ID      string     `json:"id"`
	Status  GameStatus `json:"status"`
	Seed    int64      `json:"seed"`
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Created time.Time  `json:"created"`
}

// Frame is a read-only snapshot of the game after a tick. It shares no memory
// with the engine that produced it.
type Frame struct {
	Turn      int64     `json:"turn"`
	Snake     Snake     `json:"snake"`
	Food      Food      `json:"food"`
	Blocker   *Blocker  `json:"blocker,omitempty"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score"`
	GameOver  bool      `json:"gameOver"`
	Death     *Death    `json:"death,omitempty"`

	ReverseControls    bool `json:"reverseControls"`
	ReverseSecondsLeft int  `json:"reverseSecondsLeft"`

	Mood    Mood   `json:"mood"`
	Shake   bool   `json:"shake"`
	Message string `json:"message,omitempty"`
}

// Frame returns a snapshot of the current state.
func (e *Engine) Frame() *Frame {
	f := &Frame{
		Turn:               e.turn,
		Snake:              e.snake.Clone(),
		Food:               e.food,
		Direction:          e.direction,
		Score:              e.score,
		GameOver:           e.gameOver,
		ReverseControls:    e.reverse,
		ReverseSecondsLeft: e.reverseLeft,
		Mood:               e.flavor.mood,
		Shake:              e.flavor.shaking(e.turn),
		Message:            e.flavor.message,
	}
	if e.blocker != nil {
		b := *e.blocker
		f.Blocker = &b
	}
	if e.death != nil {
		d := *e.death
		f.Death = &d
	}
	return f
}
