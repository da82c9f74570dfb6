// Package views stores named queries ("saved views") in a JSONC file.
//
// Each view is kept as the flat query string produced by query.Encode, so a
// view can be shared as text and pasted back with --view or ls flags.
package views

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/pm/internal/query"
)

// Errors returned by Store.
var (
	ErrViewNotFound = errors.New("view not found")
	ErrInvalidName  = errors.New("invalid view name (letters, digits, '-', '_' and '.' only)")
	ErrInvalidFile  = errors.New("invalid views file")
)

// View is a named query.
type View struct {
	Name  string
	Query string
	Spec  query.Spec
}

type file struct {
	Views map[string]string `json:"views"`
}

// Store reads and writes one views file.
type Store struct {
	path    string
	timeout time.Duration
}

// NewStore returns a Store for the views file at path. The file is created
// on the first Save.
func NewStore(path string) *Store {
	return &Store{path: path, timeout: LockTimeout}
}

// Path returns the views file path.
func (s *Store) Path() string { return s.path }

// List returns all views sorted by name. A missing file has no views.
func (s *Store) List() ([]View, error) {
	f, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(f.Views))

	for _, name := range slices.Sorted(maps.Keys(f.Views)) {
		v, err := toView(name, f.Views[name])
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// Get returns the view called name.
func (s *Store) Get(name string) (View, error) {
	f, err := s.read()
	if err != nil {
		return View{}, err
	}

	raw, ok := f.Views[name]
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}

	return toView(name, raw)
}

// Save stores spec under name, replacing any view with that name. The spec
// must pass query.Spec.Validate.
func (s *Store) Save(name string, spec query.Spec) (View, error) {
	err := ValidateName(name)
	if err != nil {
		return View{}, err
	}

	err = spec.Validate()
	if err != nil {
		return View{}, err
	}

	raw := query.Encode(spec).Encode()

	err = s.modify(func(f *file) error {
		f.Views[name] = raw

		return nil
	})
	if err != nil {
		return View{}, err
	}

	return View{Name: name, Query: raw, Spec: spec}, nil
}

// Delete removes the view called name.
func (s *Store) Delete(name string) error {
	return s.modify(func(f *file) error {
		if _, ok := f.Views[name]; !ok {
			return fmt.Errorf("%w: %s", ErrViewNotFound, name)
		}

		delete(f.Views, name)

		return nil
	})
}

// ValidateName reports whether name can be used for a view.
func ValidateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-_.", r) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}

	return nil
}

func toView(name, raw string) (View, error) {
	spec, err := query.ParseQuery(raw)
	if err != nil {
		return View{}, fmt.Errorf("%w: view %s: %w", ErrInvalidFile, name, err)
	}

	return View{Name: name, Query: raw, Spec: spec}, nil
}

func (s *Store) read() (file, error) {
	f := file{Views: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}

		return file{}, fmt.Errorf("reading views file: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return file{}, fmt.Errorf("%w %s: invalid JSONC: %w", ErrInvalidFile, s.path, err)
	}

	err = json.Unmarshal(standardized, &f)
	if err != nil {
		return file{}, fmt.Errorf("%w %s: %w", ErrInvalidFile, s.path, err)
	}

	if f.Views == nil {
		f.Views = map[string]string{}
	}

	return f, nil
}

// modify runs a read-modify-write cycle under the views file lock.
// Comments in the file are not preserved.
func (s *Store) modify(fn func(f *file) error) error {
	err := os.MkdirAll(filepath.Dir(s.path), 0o750)
	if err != nil {
		return fmt.Errorf("creating views dir: %w", err)
	}

	return withLock(s.path, s.timeout, func() error {
		f, err := s.read()
		if err != nil {
			return err
		}

		err = fn(&f)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndentWithOption(f, "", "  ", json.DisableHTMLEscape())
		if err != nil {
			return fmt.Errorf("encoding views file: %w", err)
		}

		data = append(data, '\n')

		err = atomic.WriteFile(s.path, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("writing views file: %w", err)
		}

		return nil
	})
}
