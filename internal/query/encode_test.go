package query

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC).Add(endOfDay)

	tests := []struct {
		name string
		spec Spec
	}{
		{"zero", Spec{}},
		{"search and sort", Spec{Search: "dark mode & more", SortBy: SortRICE, SortOrder: Asc}},
		{"filters", Spec{Filters: map[Field]string{FieldStatus: "approved", FieldTag: "ux"}, MinVotes: "5"}},
		{"date range", Spec{CreatedFrom: from, CreatedTo: to}},
		{"instant bounds", Spec{CreatedFrom: from.Add(90 * time.Minute), CreatedTo: from.Add(36 * time.Hour)}},
		{"raw values kept", Spec{SortBy: "bogus", SortOrder: "sideways", MinVotes: "lots"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			encoded := Encode(testCase.spec).Encode()

			got, err := ParseQuery(encoded)
			if err != nil {
				t.Fatalf("ParseQuery(%q): %v", encoded, err)
			}

			if diff := cmp.Diff(testCase.spec, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip of %q mismatch (-want +got):\n%s", encoded, diff)
			}
		})
	}
}

func TestEncodeOmitsInactive(t *testing.T) {
	t.Parallel()

	spec := Spec{
		Filters:     map[Field]string{FieldStatus: AllValue, FieldOwner: "", FieldKind: "idea"},
		CreatedFrom: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		CreatedTo:   time.Date(2024, 2, 29, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
	}

	got := Encode(spec).Encode()

	want := "from=2024-02-01&kind=idea&to=2024-02-29"
	if got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	got, err := ParseQuery("q=dark&status=approved&sort=date&order=asc&min_votes=5&from=2024-01-01&to=2024-01-31")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}

	want := Spec{
		Search:      "dark",
		Filters:     map[Field]string{FieldStatus: "approved"},
		MinVotes:    "5",
		SortBy:      "date",
		SortOrder:   Asc,
		CreatedFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedTo:   time.Date(2024, 1, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		values    url.Values
		wantParam string
	}{
		{"unknown parameter", url.Values{"color": {"red"}}, "color"},
		{"repeated parameter", url.Values{"status": {"new", "approved"}}, "status"},
		{"bad date", url.Values{"from": {"yesterday"}}, "from"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(testCase.values)

			var malformed *MalformedQueryError
			if !errors.As(err, &malformed) || malformed.Param != testCase.wantParam {
				t.Errorf("Decode error = %v, want MalformedQueryError for %s", err, testCase.wantParam)
			}
		})
	}

	_, err := ParseQuery("q=%zz")
	if !errors.Is(err, ErrMalformedQuery) {
		t.Errorf("ParseQuery(bad escape) error = %v, want ErrMalformedQuery", err)
	}
}
