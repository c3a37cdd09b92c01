package excel

// Config holds configuration for a spreadsheet data source
type Config struct {
	FilePath string `json:"file_path" mapstructure:"file_path"`
	// Sheet is the worksheet read from .xlsx files; ignored for .csv
	Sheet string `json:"sheet" mapstructure:"sheet"`
}

// DefaultConfig returns sensible defaults for spreadsheet ingestion
func DefaultConfig() Config {
	return Config{Sheet: "Sheet1"}
}
