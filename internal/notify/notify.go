// Package notify delivers item change events ("toasts") to interested sinks.
//
// Mutations in the state store produce events; the query engine never does.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/calvinalkan/pm/internal/item"
)

// Type classifies an event.
type Type string

// Event types.
const (
	Created       Type = "created"
	Updated       Type = "updated"
	Deleted       Type = "deleted"
	Voted         Type = "voted"
	StatusChanged Type = "status_changed"
	Scored        Type = "scored"
	Reloaded      Type = "reloaded"
)

// Event describes one change to the item collection.
type Event struct {
	Type    Type      `json:"type"`
	Kind    item.Kind `json:"kind,omitempty"`
	ItemID  string    `json:"item_id,omitempty"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NewEvent builds the event for a change of type t to it.
func NewEvent(t Type, it item.Item, at time.Time) Event {
	label := it.Kind.Label()

	var msg string

	switch t {
	case Created, Updated, Deleted, Scored:
		msg = fmt.Sprintf("%s %s: %s", label, t, it.Title)
	case Voted:
		msg = fmt.Sprintf("Vote recorded for %s (%d votes)", it.Title, it.Votes)
	case StatusChanged:
		msg = fmt.Sprintf("%s moved to %s: %s", label, it.Status, it.Title)
	default:
		msg = fmt.Sprintf("%s %s: %s", label, t, it.Title)
	}

	return Event{Type: t, Kind: it.Kind, ItemID: it.ID, Title: it.Title, Message: msg, At: at}
}

// NewReloadEvent builds the event emitted after the collection is replaced.
func NewReloadEvent(count int, source string, at time.Time) Event {
	msg := fmt.Sprintf("Reloaded %d items", count)
	if source != "" {
		msg += " from " + source
	}

	return Event{Type: Reloaded, Message: msg, At: at}
}

// Notifier receives events. Implementations must not block for long; they
// are called while the caller waits.
type Notifier interface {
	Notify(e Event)
}

// Sink is a destination a Broadcaster fans out to. A sink that returns an
// error is dropped.
type Sink interface {
	Send(e Event) error
}

type discard struct{}

func (discard) Notify(Event) {}

// Discard is a Notifier that drops every event.
var Discard Notifier = discard{}

// Broadcaster fans events out to subscribed sinks.
type Broadcaster struct {
	sinks  map[string]Sink
	mu     sync.RWMutex
	nextID int
	log    zerolog.Logger
}

// NewBroadcaster returns a Broadcaster without sinks.
func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		sinks: make(map[string]Sink),
		log:   log,
	}
}

// Subscribe adds s and returns an ID for Unsubscribe.
func (b *Broadcaster) Subscribe(s Sink) string {
	b.mu.Lock()
	b.nextID++
	id := fmt.Sprintf("sink-%d", b.nextID)
	b.sinks[id] = s
	count := len(b.sinks)
	b.mu.Unlock()

	b.log.Debug().Str("sink", id).Int("sinks", count).Msg("sink subscribed")

	return id
}

// Unsubscribe removes the sink registered under id. Unknown IDs are ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.sinks, id)
	b.mu.Unlock()
}

// Notify sends e to every sink. Sinks that fail are removed after the fan-out.
func (b *Broadcaster) Notify(e Event) {
	b.mu.RLock()

	ids := make([]string, 0, len(b.sinks))
	sinks := make([]Sink, 0, len(b.sinks))

	for id, s := range b.sinks {
		ids = append(ids, id)
		sinks = append(sinks, s)
	}
	b.mu.RUnlock()

	var dead []string

	for i, s := range sinks {
		err := s.Send(e)
		if err != nil {
			b.log.Debug().Str("sink", ids[i]).Err(err).Msg("sink failed, removing")
			dead = append(dead, ids[i])
		}
	}

	for _, id := range dead {
		b.Unsubscribe(id)
	}
}

// SinkCount returns the number of subscribed sinks.
func (b *Broadcaster) SinkCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.sinks)
}

// Recorder is a Sink and Notifier that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Send records e.
func (r *Recorder) Send(e Event) error {
	r.Notify(e)

	return nil
}

// Notify records e.
func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Format selects how a WriterSink renders events.
type Format int

// Output formats.
const (
	// FormatToast writes one human readable line per event.
	FormatToast Format = iota
	// FormatJSON writes one JSON object per line.
	FormatJSON
)

// WriterSink writes events to an io.Writer.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
}

// NewWriterSink returns a sink writing to w in the given format.
func NewWriterSink(w io.Writer, format Format) *WriterSink {
	return &WriterSink{w: w, format: format}
}

// Send writes e.
func (s *WriterSink) Send(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == FormatJSON {
		data, err := json.MarshalWithOption(e, json.DisableHTMLEscape())
		if err != nil {
			return fmt.Errorf("encoding event: %w", err)
		}

		_, err = fmt.Fprintf(s.w, "%s\n", data)

		return err
	}

	_, err := fmt.Fprintf(s.w, "%s %s\n", toastMark(e.Type), e.Message)

	return err
}

func toastMark(t Type) string {
	if t == Deleted {
		return "✗"
	}

	return "✓"
}
