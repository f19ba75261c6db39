package events

import (
	"HDRView/internal/logger"

	"go.uber.org/zap"
)

// Handler receives a delivered event.
type Handler func(Event)

// Bus delivers events synchronously to the handlers registered for their kind,
// in registration order. It is not safe for concurrent use: publishers and
// subscribers share the single execution context that drains the dispatch queue.
type Bus struct {
	handlers map[Kind][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// On registers h for every event of kind k.
func (b *Bus) On(k Kind, h Handler) {
	b.handlers[k] = append(b.handlers[k], h)
}

// OnReady registers a payload-free readiness handler.
func (b *Bus) OnReady(fn func()) {
	b.On(KindReady, func(Event) { fn() })
}

// OnUpdateHdr registers a handler for environment map hot-swap requests.
func (b *Bus) OnUpdateHdr(fn func(url string)) {
	b.On(KindUpdateHdr, func(e Event) {
		if ev, ok := e.(UpdateHdr); ok {
			fn(ev.URL)
		}
	})
}

// OnUpdateGlb registers a handler for model hot-swap requests.
func (b *Bus) OnUpdateGlb(fn func(url string)) {
	b.On(KindUpdateGlb, func(e Event) {
		if ev, ok := e.(UpdateGlb); ok {
			fn(ev.URL)
		}
	})
}

// Emit delivers e to its subscribers. Events without subscribers are dropped.
func (b *Bus) Emit(e Event) {
	hs := b.handlers[e.Kind()]
	logger.Log.Debug("Event emitted", zap.Stringer("kind", e.Kind()), zap.Int("handlers", len(hs)))
	for _, h := range hs {
		h(e)
	}
}

// Subscribers reports how many handlers are registered for k.
func (b *Bus) Subscribers(k Kind) int {
	return len(b.handlers[k])
}
