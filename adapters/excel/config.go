package excel

// ReaderConfig controls how spreadsheet and CSV files become datasets
type ReaderConfig struct {
	Sheet     string `yaml:"sheet" json:"sheet"`         // empty: first sheet in the workbook
	Delimiter rune   `yaml:"delimiter" json:"delimiter"` // CSV only; zero means ','
	MaxRows   int    `yaml:"max_rows" json:"max_rows"`   // zero means unlimited
}

// DefaultReaderConfig returns sensible defaults for file loading
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{Delimiter: ','}
}
