package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// DatasetFileRepository implements ports.DatasetRepository using indented JSON files.
type DatasetFileRepository struct{}

// NewDatasetFileRepository creates a new DatasetFileRepository.
func NewDatasetFileRepository() *DatasetFileRepository {
	return &DatasetFileRepository{}
}

// LoadFetched reads a fetch output file.
func (r *DatasetFileRepository) LoadFetched(ctx context.Context, path string) (domain.FetchedDataset, error) {
	var ds domain.FetchedDataset
	if err := readJSON(path, &ds); err != nil {
		return domain.FetchedDataset{}, err
	}
	return ds, nil
}

// SaveFetched writes a fetch output file atomically.
func (r *DatasetFileRepository) SaveFetched(ctx context.Context, path string, ds domain.FetchedDataset) error {
	if ds.Items == nil {
		ds.Items = []domain.FetchedItem{}
	}
	return writeJSON(path, ds)
}

// LoadClean reads a clean output file. The file must carry an "items" array.
func (r *DatasetFileRepository) LoadClean(ctx context.Context, path string) (domain.CleanDataset, error) {
	var raw struct {
		Items *[]domain.CleanItem `json:"items"`
	}
	if err := readJSON(path, &raw); err != nil {
		return domain.CleanDataset{}, err
	}
	if raw.Items == nil {
		return domain.CleanDataset{}, fmt.Errorf("%w: %s: input JSON must have an \"items\" array", domain.ErrIO, path)
	}
	return domain.CleanDataset{Items: *raw.Items}, nil
}

// SaveClean writes a clean output file atomically.
func (r *DatasetFileRepository) SaveClean(ctx context.Context, path string, ds domain.CleanDataset) error {
	if ds.Items == nil {
		ds.Items = []domain.CleanItem{}
	}
	return writeJSON(path, ds)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: input file not found: %s", domain.ErrIO, path)
		}
		return fmt.Errorf("%w: read %s: %w", domain.ErrIO, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrIO, path, err)
	}
	return nil
}

// writeJSON writes to a temp file and renames it over path.
func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", domain.ErrIO, dir, err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domain.ErrIO, path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: rename %s: %w", domain.ErrIO, tmp, err)
	}
	return nil
}
