// Package export serializes tracker data as indented JSON documents and reads
// whole-snapshot documents back.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/capex/internal/model"
)

// Collection names one exportable collection, or the whole snapshot.
type Collection string

// Exportable collections.
const (
	All       Collection = ""
	Resources Collection = "resources"
	Projects  Collection = "projects"
	Forecasts Collection = "forecasts"
	Actuals   Collection = "actuals"
)

// ParseCollection accepts a collection name case-insensitively. Empty and
// "all" select the whole snapshot.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(s))); c {
	case All, "all":
		return All, nil
	case Resources, Projects, Forecasts, Actuals:
		return c, nil
	default:
		return "", fmt.Errorf("unknown collection %q (want resources, projects, forecasts, actuals or all)", s)
	}
}

// Write encodes the selected collection of s to w as two-space indented JSON.
// An empty collection is written as [] rather than null.
func Write(w io.Writer, s model.Snapshot, c Collection) error {
	s = withEmptySlices(s)

	var v any
	switch c {
	case All:
		v = s
	case Resources:
		v = s.Resources
	case Projects:
		v = s.Projects
	case Forecasts:
		v = s.Forecasts
	case Actuals:
		v = s.Actuals
	default:
		return fmt.Errorf("unknown collection %q", c)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", nameOf(c), err)
	}
	return nil
}

// WriteFile writes the selected collection of s to path, creating or
// truncating it. A failed flush or close is reported.
func WriteFile(path string, s model.Snapshot, c Collection) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, s, c); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Read decodes a whole-snapshot document. Unknown fields are rejected so a
// single-collection export is not mistaken for a snapshot.
func Read(r io.Reader) (model.Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var s model.Snapshot
	if err := dec.Decode(&s); err != nil {
		return model.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return withEmptySlices(s), nil
}

func withEmptySlices(s model.Snapshot) model.Snapshot {
	if s.Forecasts == nil {
		s.Forecasts = []model.Forecast{}
	}
	if s.Resources == nil {
		s.Resources = []model.Resource{}
	}
	if s.Projects == nil {
		s.Projects = []model.Project{}
	}
	if s.Actuals == nil {
		s.Actuals = []model.Actual{}
	}
	return s
}

func nameOf(c Collection) string {
	if c == All {
		return "snapshot"
	}
	return string(c)
}
