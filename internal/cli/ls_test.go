package cli_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	json "github.com/goccy/go-json"
	"github.com/sebdah/goldie/v2"

	"github.com/calvinalkan/pm/internal/cli"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()

	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// lineIDs returns the first word of every output line.
func lineIDs(stdout string) []string {
	var ids []string

	for line := range strings.Lines(strings.TrimSpace(stdout)) {
		id, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		if id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}

func TestLsGolden(t *testing.T) {
	t.Parallel()

	for _, testCase := range []struct {
		golden string
		args   []string
	}{
		{golden: "ls_ideas", args: []string{"ls", "--kind", "idea"}},
		{golden: "ls_feedback", args: []string{"ls", "--kind", "feedback"}},
		{golden: "ls_features_rice", args: []string{"ls", "--kind", "features", "--sort", "riceScore"}},
		// Feedback has no RICE score, so the sort falls back to votes.
		{golden: "ls_feedback", args: []string{"ls", "--kind", "feedback", "--sort", "riceScore", "--order", "asc"}},
	} {
		t.Run(strings.Join(testCase.args, " "), func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stdout, stderr, exitCode := c.Run(testCase.args...)

			if got, want := exitCode, 0; got != want {
				t.Fatalf("exitCode=%d, want=%d, stderr=%s", got, want, stderr)
			}

			newGoldie(t).Assert(t, testCase.golden, []byte(stdout))
		})
	}
}

func TestLsFilters(t *testing.T) {
	t.Parallel()

	for _, testCase := range []struct {
		name    string
		args    []string
		wantIDs []string
	}{
		{
			name:    "status",
			args:    []string{"--status", "approved"},
			wantIDs: []string{"ID-01"},
		},
		{
			name:    "search is case insensitive",
			args:    []string{"--search", "DARK"},
			wantIDs: []string{"ID-01", "FB-03"},
		},
		{
			name:    "tag",
			args:    []string{"--tag", "ux"},
			wantIDs: []string{"ID-01", "FT-03", "FB-03", "FB-02"},
		},
		{
			name:    "filters combine",
			args:    []string{"--tag", "ux", "--kind", "feedback", "--min-votes", "10"},
			wantIDs: []string{"FB-03"},
		},
		{
			name:    "all imposes no constraint",
			args:    []string{"--kind", "all", "--status", "all", "--limit", "3"},
			wantIDs: []string{"FT-01", "ID-04", "FT-04"},
		},
		{
			name:    "unparsable min votes is ignored",
			args:    []string{"--min-votes", "lots", "--limit", "2"},
			wantIDs: []string{"FT-01", "ID-04"},
		},
		{
			name:    "from date includes the whole day",
			args:    []string{"--from", "2024-05-20"},
			wantIDs: []string{"FB-05", "FT-05", "FB-01", "ID-03"},
		},
		{
			name:    "to date includes the whole day",
			args:    []string{"--to", "2024-02-02"},
			wantIDs: []string{"FT-01", "FT-02"},
		},
		{
			name:    "unknown sort key falls back to votes",
			args:    []string{"--sort", "bogus", "--order", "asc", "--limit", "2"},
			wantIDs: []string{"FT-01", "ID-04"},
		},
		{
			name:    "title ascending",
			args:    []string{"--kind", "idea", "--sort", "title", "--order", "asc"},
			wantIDs: []string{"ID-04", "ID-03", "ID-01", "ID-05", "ID-02"},
		},
		{
			name:    "offset and limit",
			args:    []string{"--kind", "idea", "--offset", "1", "--limit", "2"},
			wantIDs: []string{"ID-01", "ID-02"},
		},
		{
			name:    "no match",
			args:    []string{"--owner", "nobody"},
			wantIDs: nil,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stdout := c.MustRun(append([]string{"ls"}, testCase.args...)...)

			if diff := cmp.Diff(testCase.wantIDs, lineIDs(stdout)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s\nstdout:\n%s", diff, stdout)
			}
		})
	}
}

func TestLsErrors(t *testing.T) {
	t.Parallel()

	for _, testCase := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "strict unknown sort", args: []string{"--sort", "bogus", "--strict"}, wantStderr: "unknown sort key"},
		{name: "strict unsupported sort", args: []string{"--kind", "feedback", "--sort", "effort", "--strict"}, wantStderr: "not supported for feedback"},
		{name: "strict unknown order", args: []string{"--order", "up", "--strict"}, wantStderr: "must be asc or desc"},
		{name: "bad from date", args: []string{"--from", "yesterday"}, wantStderr: "invalid --from"},
		{name: "offset past end", args: []string{"--offset", "100"}, wantStderr: "offset out of bounds"},
		{name: "negative limit", args: []string{"--limit", "-1"}, wantStderr: "--limit must be non-negative"},
		{name: "unknown view", args: []string{"--view", "missing"}, wantStderr: "view not found"},
		{name: "positional args", args: []string{"ideas"}, wantStderr: "unexpected arguments"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(append([]string{"ls"}, testCase.args...)...)

			cli.AssertContains(t, stderr, testCase.wantStderr)
		})
	}
}

func TestLsStrictFromConfig(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".pm.json", `{
  // reject bad queries
  "strict": true,
}`)

	stderr := c.MustFail("ls", "--sort", "bogus")
	cli.AssertContains(t, stderr, "unknown sort key")
}

func TestLsConfigDefaultSort(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".pm.json", `{"default_sort": "createdAt", "default_order": "asc"}`)

	stdout := c.MustRun("ls", "--kind", "idea")

	if diff := cmp.Diff([]string{"ID-05", "ID-04", "ID-01", "ID-02", "ID-03"}, lineIDs(stdout)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLsJSON(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("ls", "--json", "--owner", "maria")

	var got []struct {
		ID     string   `json:"id"`
		Votes  int      `json:"votes"`
		Tags   []string `json:"tags"`
		RICE   *float64 `json:"rice"`
		Scores *struct {
			Effort int `json:"effort"`
		} `json:"scores"`
	}

	err := json.Unmarshal([]byte(stdout), &got)
	if err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}

	if got, want := len(got), 2; got != want {
		t.Fatalf("len=%d, want=%d", got, want)
	}

	if got[0].ID != "ID-04" || got[1].ID != "ID-01" {
		t.Errorf("ids=%s,%s, want ID-04,ID-01", got[0].ID, got[1].ID)
	}

	if got[1].RICE == nil || *got[1].RICE != 128 {
		t.Errorf("rice=%v, want 128", got[1].RICE)
	}

	if got[1].Scores == nil || got[1].Scores.Effort != 3 {
		t.Errorf("scores=%+v, want effort 3", got[1].Scores)
	}
}

func TestLsJSONEmptyIsArray(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("ls", "--json", "--owner", "nobody")

	if got, want := stdout, "[]"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func TestLsJSONKeepsMarkupCharacters(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("items.yaml", "items:\n  - {id: A, kind: idea, title: \"R&D <beta> > alpha\"}\n")

	stdout := c.MustRun("--seed", "items.yaml", "ls", "--json")

	cli.AssertContains(t, stdout, `"title": "R&D <beta> > alpha"`)
	cli.AssertNotContains(t, stdout, `\u0026`)
}

func TestLsSeedFile(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("items.yaml", `items:
  - id: A
    kind: idea
    title: First
    votes: 1
  - id: B
    kind: idea
    title: Second
    votes: 1
  - id: C
    kind: feature
    title: Third
    votes: 5
`)

	stdout := c.MustRun("--seed", "items.yaml", "ls")

	if diff := cmp.Diff([]string{"C", "A", "B"}, lineIDs(stdout)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	cli.AssertContains(t, stdout, "A [idea] [new] [medium] 1 vote - First")
}

func TestLsInvalidSeedFile(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("items.yaml", "items:\n  - id: A\n    kind: gadget\n    title: X\n")

	stderr := c.MustFail("--seed", "items.yaml", "ls")
	cli.AssertContains(t, stderr, "invalid kind")
}
