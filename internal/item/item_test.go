package item

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"idea", KindIdea, false},
		{"ideas", KindIdea, false},
		{"Feature", KindFeature, false},
		{" features ", KindFeature, false},
		{"feedback", KindFeedback, false},
		{"feedbacks", KindFeedback, false},
		{"task", "", true},
		{"", "", true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKind(testCase.input)
			if testCase.wantErr {
				if !errors.Is(err, ErrInvalidKind) {
					t.Fatalf("ParseKind(%q) error = %v, want ErrInvalidKind", testCase.input, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseKind(%q) unexpected error: %v", testCase.input, err)
			}

			if got != testCase.want {
				t.Errorf("ParseKind(%q) = %q, want %q", testCase.input, got, testCase.want)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	t.Parallel()

	want := map[Kind]Status{
		KindIdea:     StatusNew,
		KindFeature:  StatusIdea,
		KindFeedback: StatusNew,
	}

	for kind, status := range want {
		if got := InitialStatus(kind); got != status {
			t.Errorf("InitialStatus(%s) = %q, want %q", kind, got, status)
		}
	}

	if got := InitialStatus("unknown"); got != "" {
		t.Errorf("InitialStatus(unknown) = %q, want empty", got)
	}
}

func TestValidStatusIsPerKind(t *testing.T) {
	t.Parallel()

	if !KindIdea.ValidStatus(StatusApproved) {
		t.Error("approved should be valid for ideas")
	}

	if KindFeature.ValidStatus(StatusApproved) {
		t.Error("approved should not be valid for features")
	}

	if !KindFeedback.ValidStatus(StatusPlanned) || !KindFeature.ValidStatus(StatusPlanned) {
		t.Error("planned should be valid for features and feedback")
	}
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	got := []int{PriorityLow.Rank(), PriorityMedium.Rank(), PriorityHigh.Rank(), PriorityCritical.Rank(), Priority("urgent").Rank()}
	want := []int{1, 2, 3, 4, 0}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}

	_, err := ParsePriority("urgent")
	if !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("ParsePriority(urgent) error = %v, want ErrInvalidPriority", err)
	}

	p, err := ParsePriority(" HIGH ")
	if err != nil || p != PriorityHigh {
		t.Errorf("ParsePriority(HIGH) = %q, %v", p, err)
	}
}

func TestScoreInputsValidate(t *testing.T) {
	t.Parallel()

	valid := ScoreInputs{Reach: 1, Impact: 10, Confidence: 5, Effort: 3}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid inputs rejected: %v", err)
	}

	for _, bad := range []ScoreInputs{
		{Reach: 0, Impact: 1, Confidence: 1, Effort: 1},
		{Reach: 1, Impact: 11, Confidence: 1, Effort: 1},
		{Reach: 1, Impact: 1, Confidence: -2, Effort: 1},
		{Reach: 1, Impact: 1, Confidence: 1, Effort: 0},
	} {
		err := bad.Validate()
		if !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Validate(%+v) error = %v, want ErrInvalidScore", bad, err)
		}
	}
}

func TestItemValidate(t *testing.T) {
	t.Parallel()

	base := Item{
		ID:        "ID-01",
		Kind:      KindIdea,
		Title:     "Dark mode",
		Status:    StatusNew,
		Priority:  PriorityHigh,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("valid item rejected: %v", err)
	}

	for _, tt := range []struct {
		name   string
		mutate func(it *Item)
		want   error
	}{
		{"missing id", func(it *Item) { it.ID = "" }, ErrIDRequired},
		{"blank title", func(it *Item) { it.Title = "   " }, ErrTitleRequired},
		{"bad kind", func(it *Item) { it.Kind = "task" }, ErrInvalidKind},
		{"status of other kind", func(it *Item) { it.Status = StatusReleased }, ErrInvalidStatus},
		{"bad priority", func(it *Item) { it.Priority = "p1" }, ErrInvalidPriority},
		{"negative votes", func(it *Item) { it.Votes = -1 }, ErrNegativeVotes},
		{"bad scores", func(it *Item) { it.Scores = &ScoreInputs{Reach: 1, Impact: 1, Confidence: 1} }, ErrInvalidScore},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			it := base.Clone()
			tt.mutate(&it)

			err := it.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := Item{
		ID:     "ID-01",
		Tags:   []string{"ux", "mobile"},
		Scores: &ScoreInputs{Reach: 2, Impact: 4, Confidence: 5, Effort: 2},
	}

	clone := orig.Clone()
	clone.Tags[0] = "changed"
	clone.Scores.Effort = 9

	if orig.Tags[0] != "ux" {
		t.Errorf("clone shares tags with original: %v", orig.Tags)
	}

	if orig.Scores.Effort != 2 {
		t.Errorf("clone shares scores with original: %+v", orig.Scores)
	}
}

func TestNewIDCarriesKindPrefix(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for _, kind := range Kinds() {
		for range 50 {
			id, err := NewID(kind)
			if err != nil {
				t.Fatalf("NewID(%s) failed: %v", kind, err)
			}

			prefix, suffix, ok := strings.Cut(id, "-")
			if !ok || prefix != IDPrefix(kind) {
				t.Fatalf("NewID(%s) = %q, want prefix %q", kind, id, IDPrefix(kind))
			}

			if len(suffix) != suffixLen {
				t.Fatalf("NewID(%s) = %q, want %d suffix chars", kind, id, suffixLen)
			}

			for _, r := range suffix {
				if !strings.ContainsRune(crockfordBase, r) {
					t.Fatalf("NewID(%s) = %q contains non-Crockford rune %q", kind, id, r)
				}
			}

			if seen[id] {
				t.Fatalf("NewID(%s) returned duplicate %q", kind, id)
			}

			seen[id] = true
		}
	}
}

func TestNewIDRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := NewID("task")
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("err=%v, want ErrInvalidKind", err)
	}
}

func TestRandomSuffixUsesRandomTailOnly(t *testing.T) {
	t.Parallel()

	// Same random tail; timestamp, version and sequence bytes differ.
	a := uuid.UUID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x7a, 0xbc, 0x8d, 0xef, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc}
	b := a
	b[0], b[5], b[6], b[7] = 0xff, 0xff, 0x7f, 0x01

	if got, want := randomSuffix(a), randomSuffix(b); got != want {
		t.Errorf("randomSuffix depends on non-random bytes: %q vs %q", got, want)
	}

	b[14] ^= 0x10
	if randomSuffix(a) == randomSuffix(b) {
		t.Error("randomSuffix ignores the lowest used random bit")
	}

	zero := uuid.UUID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x7f, 0xff, 0x80, 0, 0, 0, 0, 0, 0x0f, 0xff}
	if got, want := randomSuffix(zero), "0000000000"; got != want {
		t.Errorf("randomSuffix(zero tail)=%q, want=%q", got, want)
	}
}
