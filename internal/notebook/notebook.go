// Package notebook reads Jupyter .ipynb documents.
//
// Only the parts envcheck inspects are modelled: the top-level cells list
// and each cell's type and source. Documents are never written back.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CellTypeCode is the cell_type of executable cells.
const CellTypeCode = "code"

// ErrMissingCells is returned when the document has no top-level "cells" key.
var ErrMissingCells = errors.New("notebook has no \"cells\" key")

// Source is a cell's text as a list of lines. nbformat allows either a
// single string or a list of strings on disk; both decode to lines.
type Source []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Source) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		if text == "" {
			*s = nil
			return nil
		}
		*s = strings.SplitAfter(text, "\n")
		return nil
	}

	var lines []string
	if err := json.Unmarshal(trimmed, &lines); err != nil {
		return fmt.Errorf("source must be a string or a list of strings: %w", err)
	}
	*s = lines
	return nil
}

// Contains reports whether any line contains substr.
func (s Source) Contains(substr string) bool {
	for _, line := range s {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Cell is one notebook cell.
type Cell struct {
	CellType string `json:"cell_type"`
	Source   Source `json:"source"`
}

// Document is a parsed notebook.
type Document struct {
	Cells         []Cell
	NBFormat      int
	NBFormatMinor int
}

// Parse decodes a notebook from r. The input must hold exactly one JSON
// value; trailing data is an error.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid notebook JSON: %w", err)
	}

	cellsRaw, ok := raw["cells"]
	if !ok {
		return nil, ErrMissingCells
	}
	if bytes.Equal(bytes.TrimSpace(cellsRaw), []byte("null")) {
		return nil, errors.New("notebook \"cells\" must be a list, got null")
	}

	doc := &Document{}
	if err := json.Unmarshal(cellsRaw, &doc.Cells); err != nil {
		return nil, fmt.Errorf("malformed notebook cells: %w", err)
	}

	// nbformat fields are informational; a bad value is not fatal.
	if v, ok := raw["nbformat"]; ok {
		_ = json.Unmarshal(v, &doc.NBFormat)
	}
	if v, ok := raw["nbformat_minor"]; ok {
		_ = json.Unmarshal(v, &doc.NBFormatMinor)
	}

	return doc, nil
}

// Load opens and parses the notebook at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// CountCells returns the number of cells.
func (d *Document) CountCells() int {
	return len(d.Cells)
}

// CountCellsContaining counts cells of cellType with any source line
// containing marker.
func (d *Document) CountCellsContaining(cellType, marker string) int {
	n := 0
	for _, c := range d.Cells {
		if c.CellType == cellType && c.Source.Contains(marker) {
			n++
		}
	}
	return n
}
