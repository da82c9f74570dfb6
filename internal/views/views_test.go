package views

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/calvinalkan/pm/internal/query"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	return NewStore(filepath.Join(t.TempDir(), ".pm-views.json"))
}

func TestSaveGetList(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	views, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, views, "missing file has no views")

	spec := query.Spec{
		Search:    "dark",
		Filters:   map[query.Field]string{query.FieldStatus: "approved"},
		SortBy:    query.SortVotes,
		SortOrder: query.Desc,
		MinVotes:  "5",
	}

	saved, err := s.Save("top-approved", spec)
	require.NoError(t, err)
	assert.Equal(t, "min_votes=5&order=desc&q=dark&sort=votes&status=approved", saved.Query)

	_, err = s.Save("all.ideas", query.Spec{Filters: map[query.Field]string{query.FieldKind: "idea"}})
	require.NoError(t, err)

	got, err := s.Get("top-approved")
	require.NoError(t, err)

	if diff := cmp.Diff(spec, got.Spec, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("spec mismatch (-want +got):\n%s", diff)
	}

	views, err = s.List()
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "all.ideas", views[0].Name)
	assert.Equal(t, "top-approved", views[1].Name)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"top-approved": "min_votes=5&order=desc&q=dark&sort=votes&status=approved"`)
	assert.NotContains(t, string(raw), `\u0026`)
}

func TestSaveTimesOutWhileAnotherProcessHoldsLock(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.timeout = 50 * time.Millisecond

	f, err := os.OpenFile(lockPath(s.Path()), os.O_CREATE|os.O_RDWR, 0o600)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	// flock locks belong to the open file description, so a second open in
	// this process contends like another process would.
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_EX))

	_, err = s.Save("blocked", query.Spec{})
	require.ErrorIs(t, err, errLockTimeout)

	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_UN))

	_, err = s.Save("unblocked", query.Spec{})
	require.NoError(t, err)
}

func TestSaveRejects(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Save("has space", query.Spec{})
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = s.Save("", query.Spec{})
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = s.Save("bad", query.Spec{SortBy: "hotness"})
	require.ErrorIs(t, err, query.ErrMalformedQuery)

	_, err = os.Stat(s.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "rejected saves must not create the file")
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Save("mine", query.Spec{Filters: map[query.Field]string{query.FieldOwner: "maria"}})
	require.NoError(t, err)

	require.NoError(t, s.Delete("mine"))

	_, err = s.Get("mine")
	require.ErrorIs(t, err, ErrViewNotFound)

	require.ErrorIs(t, s.Delete("mine"), ErrViewNotFound)
}

func TestReadsCommentsAndRejectsGarbage(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.Path(), []byte(`{
		// hand edited
		"views": {"urgent": "priority=critical&sort=createdAt",},
	}`), 0o600))

	v, err := s.Get("urgent")
	require.NoError(t, err)
	assert.Equal(t, query.SortKey("createdAt"), v.Spec.SortBy)

	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"views": {"broken": "colour=red"}}`), 0o600))

	_, err = s.List()
	require.ErrorIs(t, err, ErrInvalidFile)

	require.NoError(t, os.WriteFile(s.Path(), []byte(`not json`), 0o600))

	_, err = s.Get("x")
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestConcurrentSaves(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup

	for _, name := range names {
		wg.Go(func() {
			_, err := s.Save(name, query.Spec{Search: name})
			assert.NoError(t, err)
		})
	}

	wg.Wait()

	views, err := s.List()
	require.NoError(t, err)
	assert.Len(t, views, len(names), "every concurrent save must survive")
}
