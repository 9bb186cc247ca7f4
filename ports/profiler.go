package ports

import (
	"context"

	"stataid/domain/datareadiness/profiling"
	"stataid/domain/dataset"
)

// ProfilerPort analyzes rows to extract per-column statistical profiles
type ProfilerPort interface {
	ProfileColumn(ds *dataset.Dataset, name string) (profiling.ColumnProfile, error)
	ProfileDataset(ctx context.Context, ds *dataset.Dataset) ([]profiling.ColumnProfile, error)

	// NumericSamples returns the numeric cells of column split by the value of
	// groupColumn (one unnamed sample when groupColumn is empty), groups in first-seen order
	NumericSamples(ds *dataset.Dataset, column, groupColumn string) (groups []string, samples [][]float64)
}
