package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stataid/domain/core"
)

func TestReadCSV(t *testing.T) {
	src := "group, value ,,value\nA,10,x,1\nB,12\n,,,\nA, 11 ,y,3\n"
	ds, err := NewDataReader(DefaultReaderConfig(), nil).Read(strings.NewReader(src), TypeCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"group", "value", "column_3", "value_2"}, ds.Columns)
	require.Equal(t, 3, ds.RowCount())
	assert.Equal(t, "A", ds.Cell(0, "group"))
	assert.Equal(t, "11", ds.Cell(2, "value"))
	assert.Nil(t, ds.Cell(1, "column_3"), "short rows leave trailing cells missing")
}

func TestReadCSV_DelimiterAndLimit(t *testing.T) {
	src := "a;b\n1;2\n3;4\n5;6\n"
	ds, err := NewDataReader(ReaderConfig{Delimiter: ';', MaxRows: 2}, nil).Read(strings.NewReader(src), TypeCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
	assert.Equal(t, 2, ds.RowCount())
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"region", "sales"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"north", 120.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"south", 98}))

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := NewDataReader(DefaultReaderConfig(), nil).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "sales"}, ds.Columns)
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, "120.5", ds.Cell(0, "sales"))
	assert.Equal(t, "south", ds.Cell(1, "region"))
}

func TestReadXLSX_NamedSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Survey")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Survey", "A1", &[]any{"score"}))
	require.NoError(t, f.SetSheetRow("Survey", "A2", &[]any{7}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	ds, err := NewDataReader(ReaderConfig{Sheet: "Survey"}, nil).Read(&buf, TypeXLSX)
	require.NoError(t, err)
	assert.Equal(t, "7", ds.Cell(0, "score"))
}

func TestRead_Errors(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)

	tests := []struct {
		name     string
		src      string
		fileType string
		sentinel error
	}{
		{"header only", "a,b\n", TypeCSV, core.ErrEmptyDataset},
		{"blank rows only", "a,b\n,\n", TypeCSV, core.ErrEmptyDataset},
		{"not a workbook", "plain text", TypeXLSX, core.ErrMalformedInput},
		{"unknown type", "a\n1\n", "parquet", core.ErrMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.Read(strings.NewReader(tt.src), tt.fileType)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := reader.ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
		assert.True(t, core.IsMalformedInput(err))
	})
}

func TestFileType(t *testing.T) {
	assert.Equal(t, TypeCSV, FileType("data/Export.CSV"))
	assert.Equal(t, TypeXLSX, FileType("data/export.xlsx"))
	assert.Equal(t, TypeXLSX, FileType("noext"))
}

func TestReadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n2\n"), 0o600))
	ds, err := NewDataReader(DefaultReaderConfig(), nil).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())
}
