// Package seed provides the items a dashboard session starts with: a built-in
// demo dataset, seed files on disk and synthetic data for benchmarks.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/pm/internal/item"
)

// Errors returned when reading seed files.
var (
	ErrUnsupportedFormat = errors.New("unsupported seed file format (use .yaml, .yml or .json)")
	ErrInvalidSeed       = errors.New("invalid seed file")
)

// Format is a seed file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// File is the on-disk layout of a seed file.
type File struct {
	Items []item.Item `json:"items" yaml:"items"`
}

// Load reads and validates the seed file at path.
func Load(path string) ([]item.Item, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	items, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return items, nil
}

// Parse decodes and validates seed data. Items without a status get their
// kind's initial status and items without a priority get the default.
func Parse(data []byte, format Format) ([]item.Item, error) {
	var file File

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		err := dec.Decode(&file)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()

		err := dec.Decode(&file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	seen := make(map[string]bool, len(file.Items))

	for i := range file.Items {
		it := &file.Items[i]

		if it.Status == "" {
			it.Status = item.InitialStatus(it.Kind)
		}

		if it.Priority == "" {
			it.Priority = item.DefaultPriority
		}

		err := it.Validate()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d (%s): %w", ErrInvalidSeed, i, it.ID, err)
		}

		if seen[it.ID] {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidSeed, item.ErrDuplicateID, it.ID)
		}

		seen[it.ID] = true
	}

	return file.Items, nil
}

// Write stores items at path, atomically, in the format implied by its extension.
func Write(path string, items []item.Item) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var data []byte

	file := File{Items: items}

	switch format {
	case FormatJSON:
		data, err = json.MarshalIndentWithOption(file, "", "  ", json.DisableHTMLEscape())
		if err == nil {
			data = append(data, '\n')
		}
	default:
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		err = enc.Encode(file)
		if err == nil {
			err = enc.Close()
		}

		data = buf.Bytes()
	}

	if err != nil {
		return fmt.Errorf("encoding seed file: %w", err)
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing seed file: %w", err)
	}

	return nil
}
