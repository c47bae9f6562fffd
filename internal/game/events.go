package game

import (
	"fmt"
	"time"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/board"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeMove     EventType = "move"
	EventTypePass     EventType = "pass"
	EventTypeGameOver EventType = "game_over"
	EventTypeRollback EventType = "rollback"
	EventTypeReset    EventType = "reset"
	EventTypeAnomaly  EventType = "anomaly"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens to the game state
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// MoveEvent is published after a placement is applied
type MoveEvent struct {
	Player    board.Player
	At        board.Coord
	Flips     []board.Coord
	Black     int
	White     int
	timestamp time.Time
}

func (e MoveEvent) EventType() EventType { return EventTypeMove }
func (e MoveEvent) Timestamp() time.Time { return e.timestamp }

// NewMoveEvent creates a new move event
func NewMoveEvent(player board.Player, at board.Coord, flips []board.Coord, after board.Board) MoveEvent {
	black, white := after.Count()
	return MoveEvent{
		Player:    player,
		At:        at,
		Flips:     append([]board.Coord(nil), flips...),
		Black:     black,
		White:     white,
		timestamp: time.Now(),
	}
}

// PassEvent is published when a player loses its turn. Forced is set when
// the pass was substituted for a decision the policy failed to deliver.
type PassEvent struct {
	Player    board.Player
	Forced    bool
	timestamp time.Time
}

func (e PassEvent) EventType() EventType { return EventTypePass }
func (e PassEvent) Timestamp() time.Time { return e.timestamp }

// NewPassEvent creates a new pass event
func NewPassEvent(player board.Player, forced bool) PassEvent {
	return PassEvent{Player: player, Forced: forced, timestamp: time.Now()}
}

// GameOverEvent is published when neither side can move
type GameOverEvent struct {
	Outcome   Outcome
	Black     int
	White     int
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// NewGameOverEvent creates a new game over event
func NewGameOverEvent(outcome Outcome, final board.Board) GameOverEvent {
	black, white := final.Count()
	return GameOverEvent{Outcome: outcome, Black: black, White: white, timestamp: time.Now()}
}

// RollbackEvent is published when the board is restored from history
type RollbackEvent struct {
	Remaining int
	timestamp time.Time
}

func (e RollbackEvent) EventType() EventType { return EventTypeRollback }
func (e RollbackEvent) Timestamp() time.Time { return e.timestamp }

// NewRollbackEvent creates a new rollback event
func NewRollbackEvent(remaining int) RollbackEvent {
	return RollbackEvent{Remaining: remaining, timestamp: time.Now()}
}

// ResetEvent is published when the game restarts
type ResetEvent struct {
	timestamp time.Time
}

func (e ResetEvent) EventType() EventType { return EventTypeReset }
func (e ResetEvent) Timestamp() time.Time { return e.timestamp }

// NewResetEvent creates a new reset event
func NewResetEvent() ResetEvent {
	return ResetEvent{timestamp: time.Now()}
}

// AnomalyEvent is published when a policy response cannot be used
type AnomalyEvent struct {
	Reason    string
	Response  agent.Response
	timestamp time.Time
}

func (e AnomalyEvent) EventType() EventType { return EventTypeAnomaly }
func (e AnomalyEvent) Timestamp() time.Time { return e.timestamp }

// NewAnomalyEvent creates a new anomaly event
func NewAnomalyEvent(reason string, resp agent.Response) AnomalyEvent {
	return AnomalyEvent{Reason: reason, Response: resp, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously on the publishing goroutine
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// FormatEvent renders an event as a single log line from the human's point
// of view
func FormatEvent(event GameEvent) string {
	switch e := event.(type) {
	case MoveEvent:
		who := "You"
		if e.Player == Computer {
			who = "CPU"
		}
		return fmt.Sprintf("%s: %s flips %d (Black %d, White %d)", who, e.At, len(e.Flips), e.Black, e.White)
	case PassEvent:
		if e.Forced {
			return fmt.Sprintf("%s passes (forced)", e.Player)
		}
		return fmt.Sprintf("%s has no move and passes", e.Player)
	case GameOverEvent:
		return fmt.Sprintf("Game over: %s (Black %d, White %d)", e.Outcome, e.Black, e.White)
	case RollbackEvent:
		return fmt.Sprintf("Rolled back (%d left)", e.Remaining)
	case ResetEvent:
		return "New game"
	case AnomalyEvent:
		return fmt.Sprintf("Policy anomaly: %s", e.Reason)
	default:
		return event.EventType().String()
	}
}
