package events

// Event represents a structured state change emitted by the sale core.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (indexers, reporting
// collaborators reading the ledger's public state).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events.
// It is the default for engines whose caller has not wired a subscriber.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}
