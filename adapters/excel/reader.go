// Package excel loads XLSX and CSV files into datasets.
package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"stataid/domain/core"
	"stataid/domain/dataset"
)

// File types
const (
	TypeXLSX = "xlsx"
	TypeCSV  = "csv"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config ReaderConfig
	logger *zap.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig, logger *zap.Logger) *DataReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	return &DataReader{config: config, logger: logger}
}

// FileType guesses the file type from its extension; anything but .csv is XLSX
func FileType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return TypeCSV
	}
	return TypeXLSX
}

// ReadFile reads an Excel or CSV file from disk
func (r *DataReader) ReadFile(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: file not found: %s", core.ErrMalformedInput, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(f, FileType(path))
}

// Read reads a dataset from an open stream of the given file type
func (r *DataReader) Read(src io.Reader, fileType string) (*dataset.Dataset, error) {
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case TypeCSV:
		rows, err = r.readCSV(src)
	case TypeXLSX:
		rows, err = r.readExcel(src)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", core.ErrMalformedInput, fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file must have a header row and at least one data row", core.ErrEmptyDataset)
	}

	ds := r.toDataset(rows)
	if ds.RowCount() == 0 {
		return nil, fmt.Errorf("%w: file has no non-blank data rows", core.ErrEmptyDataset)
	}
	r.logger.Info("file loaded",
		zap.String("type", fileType),
		zap.Int("columns", ds.ColumnCount()),
		zap.Int("rows", ds.RowCount()),
		zap.Duration("elapsed", time.Since(start)))
	return ds, nil
}

func (r *DataReader) readExcel(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", core.ErrMalformedInput, err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrEmptyDataset)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", core.ErrMalformedInput, sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.Comma = r.config.Delimiter
	reader.FieldsPerRecord = -1 // ragged rows become missing cells
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", core.ErrMalformedInput, err)
	}
	return rows, nil
}

// toDataset turns raw string rows into a dataset. Blank headers are named
// column_N and repeated headers get a _2, _3 ... suffix. Fully blank rows are dropped.
func (r *DataReader) toDataset(rows [][]string) *dataset.Dataset {
	headers := uniqueHeaders(rows[0])

	data := make([]dataset.Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		if blankRow(raw) {
			continue
		}
		if r.config.MaxRows > 0 && len(data) >= r.config.MaxRows {
			break
		}
		row := make(dataset.Row, len(headers))
		for j, h := range headers {
			if j < len(raw) {
				row[h] = strings.TrimSpace(raw[j])
			} else {
				row[h] = nil
			}
		}
		data = append(data, row)
	}
	return dataset.New(headers, data)
}

func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s_%d", h, n)
		}
		headers[i] = h
	}
	return headers
}

func blankRow(raw []string) bool {
	for _, cell := range raw {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
