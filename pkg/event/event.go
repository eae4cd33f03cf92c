// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Scene event types
const (
	SceneStarted      Type = "scene_started"
	SceneStopped      Type = "scene_stopped"
	RenderModeChanged Type = "render_mode_changed"
	CameraModeChanged Type = "camera_mode_changed"
	EmissionToggled   Type = "emission_toggled"
	ViewportResized   Type = "viewport_resized"
	FlightLimitHit    Type = "flight_limit_hit"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler; it is
// safe to call more than once.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so a concurrent Publish keeps iterating its own snapshot.
			b.handlers[eventType] = append(append([]subscriber(nil), subs[:i]...), subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// ModeEvent reports a change of the render or camera mode.
type ModeEvent struct {
	BaseEvent
	Mode     string
	Previous string
}

// NewModeEvent creates a new mode event
func NewModeEvent(eventType Type, source interface{}, mode, previous string) *ModeEvent {
	return &ModeEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Mode:      mode,
		Previous:  previous,
	}
}

// ToggleEvent reports a feature being switched on or off.
type ToggleEvent struct {
	BaseEvent
	Enabled bool
}

// NewToggleEvent creates a new toggle event
func NewToggleEvent(eventType Type, source interface{}, enabled bool) *ToggleEvent {
	return &ToggleEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Enabled:   enabled,
	}
}

// ResizeEvent reports a new viewport size in pixels.
type ResizeEvent struct {
	BaseEvent
	Width  int
	Height int
}

// NewResizeEvent creates a new resize event
func NewResizeEvent(source interface{}, width, height int) *ResizeEvent {
	return &ResizeEvent{
		BaseEvent: BaseEvent{EventType: ViewportResized, Source: source},
		Width:     width,
		Height:    height,
	}
}

// LimitEvent reports the plane reaching a bound of its flight envelope.
type LimitEvent struct {
	BaseEvent
	Limit string
	Value float32
}

// NewLimitEvent creates a new flight limit event
func NewLimitEvent(source interface{}, limit string, value float32) *LimitEvent {
	return &LimitEvent{
		BaseEvent: BaseEvent{EventType: FlightLimitHit, Source: source},
		Limit:     limit,
		Value:     value,
	}
}
