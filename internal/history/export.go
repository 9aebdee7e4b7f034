// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// ExportEntry is a run with its report rows.
type ExportEntry struct {
	Run  `yaml:",inline"`
	Rows []types.ReportRow `json:"rows" yaml:"rows"`
}

const exportLimit = 100000

// ExportYAML writes the filtered history to dir/index/export.yaml and
// returns the path.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes the filtered history to dir/index/export.json and
// returns the path.
func (s *Store) ExportJSON(ctx context.Context, opts ListOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, indexDir, name)
	err := fsio.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	return path, err
}

func (s *Store) exportEntries(ctx context.Context, opts ListOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	runs, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		rows, err := s.Rows(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		entries[i] = ExportEntry{Run: r, Rows: rows}
	}
	return entries, nil
}
