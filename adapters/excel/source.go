package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/internal/logger"
)

// FileSource loads mediation datasets from a spreadsheet.
// It implements ports.DatasetSource.
type FileSource struct {
	reader *DataReader
}

// NewFileSource creates a dataset source for cfg.FilePath
func NewFileSource(cfg Config, log *logger.Logger) *FileSource {
	return &FileSource{reader: NewDataReader(cfg, log)}
}

// Load reads the named columns. Every cell must be a finite number;
// the first offending cell is reported with its spreadsheet row.
func (s *FileSource) Load(ctx context.Context, columns []string) (*mediation.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns requested", core.ErrInsufficientData)
	}

	data, err := s.reader.ReadData()
	if err != nil {
		return nil, err
	}
	return ToDataset(data, columns)
}

// ToDataset converts the named columns of data into a numeric dataset
func ToDataset(data *SheetData, columns []string) (*mediation.Dataset, error) {
	out := make(map[string][]float64, len(columns))
	for _, name := range columns {
		j, ok := data.Column(name)
		if !ok {
			return nil, core.NewExtractionError(name, "data file")
		}

		values := make([]float64, len(data.Rows))
		for i, row := range data.Rows {
			cell := row[j]
			if cell == "" {
				// header is row 1
				return nil, fmt.Errorf("%w: empty cell in column %q at row %d", core.ErrInsufficientData, name, i+2)
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("column %q row %d: %q is not a finite number", name, i+2, cell)
			}
			values[i] = v
		}
		out[name] = values
	}
	return mediation.NewDataset(out)
}
