// Package item defines the product items tracked by the dashboard: ideas,
// features and customer feedback.
package item

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Kind identifies which board an item belongs to.
type Kind string

// Kind constants.
const (
	KindIdea     Kind = "idea"
	KindFeature  Kind = "feature"
	KindFeedback Kind = "feedback"
)

var kinds = []Kind{KindIdea, KindFeature, KindFeedback}

// Kinds returns all item kinds in display order.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return slices.Contains(kinds, k)
}

// Label is the capitalized kind name used in notifications.
func (k Kind) Label() string {
	switch k {
	case KindIdea:
		return "Idea"
	case KindFeature:
		return "Feature"
	case KindFeedback:
		return "Feedback"
	default:
		return "Item"
	}
}

// ParseKind parses a kind name. Plural forms are accepted.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidKind, s)
	}

	return k, nil
}

// Status is a lifecycle state. Valid values depend on the item kind.
type Status string

// Idea statuses.
const (
	StatusNew           Status = "new"
	StatusReviewing     Status = "reviewing"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusInDevelopment Status = "in_development"
)

// Feature statuses.
const (
	StatusIdea       Status = "idea"
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusTesting    Status = "testing"
	StatusReleased   Status = "released"
)

// Feedback statuses. Feedback also starts as StatusNew and can be StatusPlanned.
const (
	StatusUnderReview Status = "under_review"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
)

// statusesByKind lists each kind's statuses, initial status first.
var statusesByKind = map[Kind][]Status{
	KindIdea:     {StatusNew, StatusReviewing, StatusApproved, StatusRejected, StatusInDevelopment},
	KindFeature:  {StatusIdea, StatusPlanned, StatusInProgress, StatusTesting, StatusReleased},
	KindFeedback: {StatusNew, StatusUnderReview, StatusPlanned, StatusResolved, StatusClosed},
}

// Statuses returns the valid statuses for k, initial status first.
func Statuses(k Kind) []Status {
	return slices.Clone(statusesByKind[k])
}

// InitialStatus returns the status new items of kind k start in.
func InitialStatus(k Kind) Status {
	statuses := statusesByKind[k]
	if len(statuses) == 0 {
		return ""
	}

	return statuses[0]
}

// ValidStatus reports whether s belongs to the status enumeration of k.
func (k Kind) ValidStatus(s Status) bool {
	return slices.Contains(statusesByKind[k], s)
}

// Priority is the urgency of an item.
type Priority string

// Priority constants.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// DefaultPriority is used when an item is created without one.
const DefaultPriority = PriorityMedium

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Priorities returns all priorities from lowest to highest.
func Priorities() []Priority {
	return slices.Clone(priorities)
}

// Rank orders priorities: low=1 through critical=4. Unknown values rank 0.
func (p Priority) Rank() int {
	return slices.Index(priorities, p) + 1
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// ParsePriority parses a priority name.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidPriority, s)
	}

	return p, nil
}

// Score input bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// ScoreInputs are the four RICE inputs, each in [MinScore, MaxScore].
type ScoreInputs struct {
	Reach      int `json:"reach" yaml:"reach"`
	Impact     int `json:"impact" yaml:"impact"`
	Confidence int `json:"confidence" yaml:"confidence"`
	Effort     int `json:"effort" yaml:"effort"`
}

// Validate checks every input is within bounds.
func (s ScoreInputs) Validate() error {
	for _, in := range []struct {
		name  string
		value int
	}{
		{"reach", s.Reach},
		{"impact", s.Impact},
		{"confidence", s.Confidence},
		{"effort", s.Effort},
	} {
		if in.value < MinScore || in.value > MaxScore {
			return fmt.Errorf("%w: %s=%d (must be %d-%d)", ErrInvalidScore, in.name, in.value, MinScore, MaxScore)
		}
	}

	return nil
}

// Item is an idea, feature or piece of feedback.
//
// Derived metrics such as the RICE score are not stored here; they are
// recomputed from Scores when needed.
type Item struct {
	ID          string       `json:"id" yaml:"id"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status       `json:"status" yaml:"status"`
	Priority    Priority     `json:"priority" yaml:"priority"`
	Votes       int          `json:"votes" yaml:"votes"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Category    string       `json:"category,omitempty" yaml:"category,omitempty"`
	Owner       string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	Scores      *ScoreInputs `json:"scores,omitempty" yaml:"scores,omitempty"`
	ValueScore  float64      `json:"value_score,omitempty" yaml:"value_score,omitempty"`
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.Tags = slices.Clone(it.Tags)

	if it.Scores != nil {
		scores := *it.Scores
		out.Scores = &scores
	}

	return out
}

// Validate checks the invariants every stored item satisfies.
func (it Item) Validate() error {
	if it.ID == "" {
		return ErrIDRequired
	}

	if !it.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, it.Kind)
	}

	if strings.TrimSpace(it.Title) == "" {
		return ErrTitleRequired
	}

	if !it.Kind.ValidStatus(it.Status) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidStatus, it.Status, it.Kind)
	}

	if !it.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, it.Priority)
	}

	if it.Votes < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeVotes, it.Votes)
	}

	if it.Scores != nil {
		err := it.Scores.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}
