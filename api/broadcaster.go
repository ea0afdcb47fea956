// Package api exposes the compiler as an HTTP and WebSocket service
// (SPEC_FULL §3.2), reusing the teacher's fan-out broadcaster pattern
// to push one event per pipeline phase as each line compiles.
package api

import "sync"

// Phase names one pipeline stage a broadcast event reports on.
type Phase string

const (
	PhaseLexed     Phase = "lexed"
	PhaseParsed    Phase = "parsed"
	PhaseTyped     Phase = "typed"
	PhaseTAC       Phase = "tac"
	PhaseOptimized Phase = "optimized"
	PhaseCodegen   Phase = "codegen"
)

// Event is one phase-completion notification for a single source line.
type Event struct {
	Phase Phase  `json:"phase"`
	Line  int    `json:"line"`
	Detail string `json:"detail"`
}

// Subscription is one WebSocket client's event channel.
type Subscription struct {
	Channel chan Event
}

// Broadcaster fans out compile events to every connected WebSocket
// client, mirroring the teacher's register/unregister/broadcast
// goroutine loop.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan Event
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan Event, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				select {
				case sub.Channel <- event:
				default:
					// slow client: drop rather than block the broadcaster
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new client channel.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{Channel: make(chan Event, 32)}
	b.register <- sub
	return sub
}

// Unsubscribe removes a client channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Publish broadcasts an event to every subscriber.
func (b *Broadcaster) Publish(event Event) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// Close shuts the broadcaster down, disconnecting every client.
func (b *Broadcaster) Close() {
	close(b.done)
}
