package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gomediate/internal/logger"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	log      *logger.Logger
}

// NewDataReader creates a reader for cfg.FilePath. The file type is chosen
// from the extension; anything other than .csv is opened as a workbook.
func NewDataReader(cfg Config, log *logger.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(cfg.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = DefaultConfig().Sheet
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &DataReader{filePath: cfg.FilePath, fileType: fileType, sheet: sheet, log: log}
}

// ReadData reads the file into headers and string rows
func (r *DataReader) ReadData() (*SheetData, error) {
	r.log.Debugw("reading data file", "type", r.fileType, "path", r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcelData() (*SheetData, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}
	r.log.Debugw("sheet read", "sheet", r.sheet, "rows", len(rows), "elapsed", time.Since(start))

	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.log.Debugw("csv read", "rows", len(rows), "elapsed", time.Since(start))

	return r.processRows(rows)
}

// processRows trims cells and pads short rows to the header width.
// excelize drops trailing empty cells, so padding is needed for workbooks.
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType))
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := 0; j < len(row) && j < len(headers); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		data = append(data, cells)
	}

	r.log.Infow("data file processed", "type", r.fileType, "columns", len(headers), "rows", len(data))
	return &SheetData{Headers: headers, Rows: data}, nil
}

// NumericColumns returns the headers whose every cell parses as a number
func NumericColumns(data *SheetData) []string {
	var out []string
	for j, h := range data.Headers {
		numeric := h != ""
		for _, row := range data.Rows {
			if _, err := strconv.ParseFloat(row[j], 64); err != nil {
				numeric = false
				break
			}
		}
		if numeric {
			out = append(out, h)
		}
	}
	return out
}
