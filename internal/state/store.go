// Package state holds the in-memory item collection of a dashboard session.
//
// The Store is the only place items are mutated. It validates every change,
// serializes writers with a mutex and reports successful changes to a
// notify.Notifier. Reads hand out copies, so callers can never alias stored
// items. Nothing is persisted: the collection lives as long as the process.
package state

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/notify"
	"github.com/calvinalkan/pm/internal/query"
)

// Errors returned by Store in addition to the item package sentinels.
var (
	ErrEmptyPatch          = errors.New("nothing to change")
	ErrScoresNotSupported  = errors.New("scores are not supported for feedback")
	ErrInvalidStoreOptions = errors.New("invalid store options")
)

// Draft holds the caller-supplied fields of a new item. ID, status, votes and
// creation time are assigned by the store.
type Draft struct {
	Title       string
	Description string
	// Priority defaults to item.DefaultPriority when empty.
	Priority   item.Priority
	Category   string
	Owner      string
	Tags       []string
	Scores     *item.ScoreInputs
	ValueScore float64
}

// Patch lists the fields Edit changes. Nil fields are left alone. Votes,
// status and scores have dedicated operations and cannot be patched.
type Patch struct {
	Title       *string
	Description *string
	Priority    *item.Priority
	Category    *string
	Owner       *string
	Tags        *[]string
}

func (p Patch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Category == nil && p.Owner == nil && p.Tags == nil
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithNotifier sets where change events are sent. The default discards.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock sets the time source for creation times and events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the ID source for new items. The default is item.NewID.
func WithIDGenerator(newID func(item.Kind) (string, error)) Option {
	return func(s *Store) { s.newID = newID }
}

// Store is a concurrency-safe in-memory item collection.
type Store struct {
	mu    sync.RWMutex
	items []item.Item // insertion order
	index map[string]int

	log      zerolog.Logger
	notifier notify.Notifier
	now      func() time.Time
	newID    func(item.Kind) (string, error)
}

// New returns a Store holding a copy of items. Every item must be valid and
// IDs must be unique.
func New(items []item.Item, opts ...Option) (*Store, error) {
	s := &Store{
		log:      zerolog.Nop(),
		notifier: notify.Discard,
		now:      time.Now,
		newID:    item.NewID,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.notifier == nil || s.now == nil || s.newID == nil {
		return nil, fmt.Errorf("%w: notifier, clock and id generator must be non-nil", ErrInvalidStoreOptions)
	}

	loaded, index, err := load(items)
	if err != nil {
		return nil, err
	}

	s.items, s.index = loaded, index

	return s, nil
}

func load(items []item.Item) ([]item.Item, map[string]int, error) {
	out := make([]item.Item, 0, len(items))
	index := make(map[string]int, len(items))

	for i := range items {
		it := items[i].Clone()

		err := it.Validate()
		if err != nil {
			return nil, nil, fmt.Errorf("item %d (%s): %w", i, it.ID, err)
		}

		if _, dup := index[it.ID]; dup {
			return nil, nil, fmt.Errorf("%w: %s", item.ErrDuplicateID, it.ID)
		}

		index[it.ID] = len(out)
		out = append(out, it)
	}

	return out, index, nil
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Get returns a copy of the item with the given ID.
func (s *Store) Get(id string) (item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return item.Item{}, fmt.Errorf("%w: %s", item.ErrNotFound, id)
	}

	return s.items[i].Clone(), nil
}

// Items returns copies of the items of kind in insertion order. An empty kind
// returns every item.
func (s *Store) Items(kind item.Kind) []item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]item.Item, 0, len(s.items))

	for i := range s.items {
		if kind == "" || s.items[i].Kind == kind {
			out = append(out, s.items[i].Clone())
		}
	}

	return out
}

// Query runs spec against the current items. See query.Run.
func (s *Store) Query(spec query.Spec) []item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return query.Run(s.items, spec)
}

// QueryStrict runs spec against the current items after validating it.
func (s *Store) QueryStrict(spec query.Spec) ([]item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return query.RunStrict(s.items, spec)
}

// Add creates an item of kind from d. The new item gets a generated ID, the
// kind's initial status and zero votes.
func (s *Store) Add(kind item.Kind, d Draft) (item.Item, error) {
	if !kind.Valid() {
		return item.Item{}, fmt.Errorf("%w: %q", item.ErrInvalidKind, kind)
	}

	if d.Scores != nil && kind == item.KindFeedback {
		return item.Item{}, ErrScoresNotSupported
	}

	id, err := s.newID(kind)
	if err != nil {
		return item.Item{}, err
	}

	priority := d.Priority
	if priority == "" {
		priority = item.DefaultPriority
	}

	it := item.Item{
		ID:          id,
		Kind:        kind,
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      item.InitialStatus(kind),
		Priority:    priority,
		CreatedAt:   s.now().UTC(),
		Tags:        slices.Clone(d.Tags),
		Category:    d.Category,
		Owner:       d.Owner,
		ValueScore:  d.ValueScore,
	}

	if d.Scores != nil {
		scores := *d.Scores
		it.Scores = &scores
	}

	err = it.Validate()
	if err != nil {
		return item.Item{}, err
	}

	s.mu.Lock()

	if _, dup := s.index[it.ID]; dup {
		s.mu.Unlock()

		return item.Item{}, fmt.Errorf("%w: %s", item.ErrDuplicateID, it.ID)
	}

	s.index[it.ID] = len(s.items)
	s.items = append(s.items, it)
	s.mu.Unlock()

	s.log.Debug().Str("id", it.ID).Str("kind", string(kind)).Msg("item created")
	s.emit(notify.Created, it)

	return it.Clone(), nil
}

// Edit applies p to the item with the given ID.
func (s *Store) Edit(id string, p Patch) (item.Item, error) {
	if p.empty() {
		return item.Item{}, ErrEmptyPatch
	}

	return s.update(id, notify.Updated, func(it *item.Item) error {
		if p.Title != nil {
			it.Title = strings.TrimSpace(*p.Title)
		}

		if p.Description != nil {
			it.Description = *p.Description
		}

		if p.Priority != nil {
			it.Priority = *p.Priority
		}

		if p.Category != nil {
			it.Category = *p.Category
		}

		if p.Owner != nil {
			it.Owner = *p.Owner
		}

		if p.Tags != nil {
			it.Tags = slices.Clone(*p.Tags)
		}

		return nil
	})
}

// Vote adds one vote to the item with the given ID.
func (s *Store) Vote(id string) (item.Item, error) {
	return s.update(id, notify.Voted, func(it *item.Item) error {
		it.Votes++

		return nil
	})
}

// SetStatus moves the item to status, which must belong to its kind.
func (s *Store) SetStatus(id string, status item.Status) (item.Item, error) {
	return s.update(id, notify.StatusChanged, func(it *item.Item) error {
		if !it.Kind.ValidStatus(status) {
			return fmt.Errorf("%w: %q for %s (valid: %s)", item.ErrInvalidStatus, status, it.Kind, joinStatuses(item.Statuses(it.Kind)))
		}

		it.Status = status

		return nil
	})
}

// SetScores replaces the RICE inputs of the item with the given ID.
func (s *Store) SetScores(id string, scores item.ScoreInputs) (item.Item, error) {
	return s.update(id, notify.Scored, func(it *item.Item) error {
		if it.Kind == item.KindFeedback {
			return ErrScoresNotSupported
		}

		it.Scores = &scores

		return nil
	})
}

// Delete removes the item with the given ID and returns it.
func (s *Store) Delete(id string) (item.Item, error) {
	s.mu.Lock()

	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()

		return item.Item{}, fmt.Errorf("%w: %s", item.ErrNotFound, id)
	}

	removed := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)

	delete(s.index, id)

	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}

	s.mu.Unlock()

	s.log.Debug().Str("id", id).Msg("item deleted")
	s.emit(notify.Deleted, removed)

	return removed, nil
}

// Replace swaps the whole collection for items, as when re-seeding. On error
// the current collection is kept.
func (s *Store) Replace(items []item.Item, source string) error {
	loaded, index, err := load(items)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items, s.index = loaded, index
	s.mu.Unlock()

	s.log.Debug().Int("items", len(loaded)).Str("source", source).Msg("items replaced")
	s.notifier.Notify(notify.NewReloadEvent(len(loaded), source, s.now().UTC()))

	return nil
}

// update applies fn to a copy of the stored item and commits the copy only if
// fn succeeds and the result is still valid.
func (s *Store) update(id string, typ notify.Type, fn func(it *item.Item) error) (item.Item, error) {
	s.mu.Lock()

	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()

		return item.Item{}, fmt.Errorf("%w: %s", item.ErrNotFound, id)
	}

	next := s.items[i].Clone()

	err := fn(&next)
	if err == nil {
		err = next.Validate()
	}

	if err != nil {
		s.mu.Unlock()

		return item.Item{}, err
	}

	s.items[i] = next
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Str("change", string(typ)).Msg("item updated")
	s.emit(typ, next)

	return next.Clone(), nil
}

// emit runs outside the lock so notifiers may read the store.
func (s *Store) emit(typ notify.Type, it item.Item) {
	s.notifier.Notify(notify.NewEvent(typ, it, s.now().UTC()))
}

func joinStatuses(statuses []item.Status) string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	return strings.Join(names, ", ")
}
