package rules

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// FoodType is the food variant.
type FoodType string

// Food variants.
const (
	FoodNormal  FoodType = "normal"
	FoodMoving  FoodType = "moving"
	FoodReverse FoodType = "reverse"
)

// Food is the single piece of food on the board.
type Food struct {
	Position   Point    `json:"position"`
	Type       FoodType `json:"type"`
	DodgesLeft int      `json:"dodgesLeft"`
}

// spawnFood places new food on a random free cell. The board is full only when
// the snake fills every cell, in which case the old food stays where it is.
func (e *Engine) spawnFood() {
	var occupied []Point
	if e.blocker != nil {
		occupied = append(occupied, e.blocker.Position)
	}
	p, ok := getUnoccupiedPoint(e.rng, e.snake, occupied...)
	if !ok {
		log.WithField("turn", e.turn).Warn("no free cell for food")
		return
	}

	food := Food{Position: p, Type: chooseFoodType(e.rng.Float64())}
	if food.Type == FoodMoving {
		food.DodgesLeft = e.rng.Intn(MaxBaitDodges) + 1
	}
	e.food = food

	log.WithFields(log.Fields{
		"turn": e.turn,
		"food": food.Position,
		"type": food.Type,
	}).Debug("food spawned")
}

func chooseFoodType(roll float64) FoodType {
	switch {
	case roll < NormalFoodChance:
		return FoodNormal
	case roll < NormalFoodChance+MovingFoodChance:
		return FoodMoving
	}
	return FoodReverse
}

func getUnoccupiedPoint(rng Rand, snake Snake, occupied ...Point) (Point, bool) {
	openPoints := getUnoccupiedPoints(snake, occupied...)
	if len(openPoints) == 0 {
		return Point{}, false
	}
	return openPoints[rng.Intn(len(openPoints))], true
}

func getUnoccupiedPoints(snake Snake, occupied ...Point) []Point {
	var taken [GridSize][GridSize]bool
	for _, p := range snake {
		if p.InBounds() {
			taken[p.X][p.Y] = true
		}
	}
	for _, p := range occupied {
		if p.InBounds() {
			taken[p.X][p.Y] = true
		}
	}

	candidatePoints := make([]Point, 0, GridSize*GridSize-len(snake))
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			if !taken[x][y] {
				candidatePoints = append(candidatePoints, Point{X: x, Y: y})
			}
		}
	}
	return candidatePoints
}

// moveBait lets moving food react to an approaching head. It returns true when
// the food moved, which costs the snake its move this tick.
func (e *Engine) moveBait(head Point) bool {
	food := e.food.Position
	if head.Distance(food) >= BaitTriggerDistance || e.food.DodgesLeft <= 0 {
		return false
	}

	next := food
	if e.rng.Float64() < BaitRushChance {
		// Panic: run straight at the head.
		next = next.Add(towards(food, head))
		e.flavor.mood = MoodScared
		e.flavor.say(e.turn, MessageRush, 500*time.Millisecond)
	} else {
		if e.rng.Float64() < 0.5 {
			next.X += awayFrom(head.X, food.X)
		} else {
			next.Y += awayFrom(head.Y, food.Y)
		}
		e.flavor.mood = MoodTroll
		e.flavor.say(e.turn, MessageDodge, 500*time.Millisecond)
	}

	e.food.Position = next.Clamp()
	e.food.DodgesLeft--

	log.WithFields(log.Fields{
		"turn":       e.turn,
		"from":       food,
		"to":         e.food.Position,
		"dodgesLeft": e.food.DodgesLeft,
	}).Debug("bait moved")
	return true
}

// awayFrom is the step on one axis that takes food further from the head. A
// head level with the food on that axis pushes it towards the origin.
func awayFrom(head, food int) int {
	if head < food {
		return 1
	}
	return -1
}
